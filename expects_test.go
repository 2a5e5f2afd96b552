package forth

// @generated from forth_test.go

//go:generate go run scripts/gen_expects.go -- forth_test.go expects_test.go

func withForthOptions(opts ...Option) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.withOptions(opts...)
	}
}

func withForthStack(values ...Word) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.withStack(values...)
	}
}

func withForthRStack(values ...Word) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.withRStack(values...)
	}
}

func withForthMemAt(addr Word, values ...Word) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.withMemAt(addr, values...)
	}
}

func withForthInput(input string) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.withInput(input)
	}
}

func withForthNamedInput(name string, input string) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.withNamedInput(name, input)
	}
}

func withForthTestOutput(prefix string) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.withTestOutput(prefix)
	}
}

func withForthEval(src string) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.withEval(src)
	}
}

func expectForthError(err error) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.expectError(err)
	}
}

func expectForthStack(values ...Word) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.expectStack(values...)
	}
}

func expectForthSigned(values ...int16) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.expectSigned(values...)
	}
}

func expectForthRStack(values ...Word) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.expectRStack(values...)
	}
}

func expectForthMemAt(addr Word, values ...Word) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.expectMemAt(addr, values...)
	}
}

func expectForthWord(name string, code ...interface{}) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.expectWord(name, code...)
	}
}

func expectForthHere(value Word) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.expectHere(value)
	}
}

func expectForthCompiling(compiling bool) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.expectCompiling(compiling)
	}
}

func expectForthOutput(output string) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.expectOutput(output)
	}
}

func expectForthErrorString(mess string) func(forthTestCase) forthTestCase {
	return func(ft forthTestCase) forthTestCase {
		return ft.expectErrorString(mess)
	}
}
