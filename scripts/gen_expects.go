package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

// builderType is the test case type whose with* and expect* methods get a
// free function wrapper each, so that table tests may list them as values.
const builderType = "forthTestCase"

func main() {
	timeout := flag.Duration("timeout", 5*time.Second, "time limit for generation")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		log.Fatalf("usage: gen_expects SOURCE.go [OUTPUT.go]")
	}
	srcName := args[0]

	var out io.WriteCloser = os.Stdout
	if len(args) > 1 {
		f, err := os.Create(args[1])
		if err != nil {
			log.Fatalf("failed to create %v: %v", args[1], err)
		}
		out = f
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := generate(ctx, srcName, args, out); err != nil {
		log.Fatalln(err)
	}
}

// generate writes wrappers for the builder methods found in srcName to out,
// formatted by goimports.
func generate(ctx context.Context, srcName string, args []string, out io.WriteCloser) error {
	methods, err := scanBuilders(srcName)
	if err != nil {
		return err
	}

	pr, pw := io.Pipe()
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer out.Close()
		cmd := exec.CommandContext(ctx, "goimports")
		cmd.Stdin = pr
		cmd.Stdout = out
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			pr.CloseWithError(err)
			return fmt.Errorf("goimports failed: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "package forth\n\n// @generated from %v\n\n", srcName)
		fmt.Fprintf(&buf, "//go:generate go run scripts/gen_expects.go -- %v\n\n", strings.Join(args, " "))
		for _, m := range methods {
			m.writeWrapper(&buf)
			if err := ctx.Err(); err != nil {
				pw.CloseWithError(err)
				return err
			}
		}
		_, err := buf.WriteTo(pw)
		pw.CloseWithError(err)
		return err
	})

	return eg.Wait()
}

type builderMethod struct {
	name   string // like expectStack
	params []builderParam
}

type builderParam struct {
	name     string
	typ      string
	variadic bool
}

// scanBuilders parses the named file, returning every method of builderType
// named with* or expect* that returns builderType, in source order.
func scanBuilders(name string) ([]builderMethod, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, name, nil, 0)
	if err != nil {
		return nil, err
	}

	typeString := func(expr ast.Expr) string {
		var sb strings.Builder
		printer.Fprint(&sb, fset, expr)
		return sb.String()
	}

	var methods []builderMethod
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) != 1 {
			continue
		}
		if typeString(fn.Recv.List[0].Type) != builderType {
			continue
		}
		if !strings.HasPrefix(fn.Name.Name, "with") && !strings.HasPrefix(fn.Name.Name, "expect") {
			continue
		}
		if res := fn.Type.Results; res == nil || len(res.List) != 1 || typeString(res.List[0].Type) != builderType {
			continue
		}
		if fn.Type.Params.NumFields() == 0 {
			continue
		}

		m := builderMethod{name: fn.Name.Name}
		for _, field := range fn.Type.Params.List {
			param := builderParam{typ: typeString(field.Type)}
			if ell, ok := field.Type.(*ast.Ellipsis); ok {
				param.variadic = true
				param.typ = typeString(ell.Elt)
			}
			for _, id := range field.Names {
				param.name = id.Name
				m.params = append(m.params, param)
			}
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// wrapperName turns expectStack into expectForthStack.
func (m builderMethod) wrapperName() string {
	for _, prefix := range []string{"expect", "with"} {
		if strings.HasPrefix(m.name, prefix) {
			return prefix + "Forth" + m.name[len(prefix):]
		}
	}
	return m.name
}

func (m builderMethod) writeWrapper(buf *bytes.Buffer) {
	var decl, call []string
	for _, p := range m.params {
		if p.variadic {
			decl = append(decl, p.name+" ..."+p.typ)
			call = append(call, p.name+"...")
		} else {
			decl = append(decl, p.name+" "+p.typ)
			call = append(call, p.name)
		}
	}
	fmt.Fprintf(buf, "func %v(%v) func(%v) %v {\n", m.wrapperName(), strings.Join(decl, ", "), builderType, builderType)
	fmt.Fprintf(buf, "\treturn func(ft %v) %v {\n", builderType, builderType)
	fmt.Fprintf(buf, "\t\treturn ft.%v(%v)\n", m.name, strings.Join(call, ", "))
	buf.WriteString("\t}\n}\n\n")
}
