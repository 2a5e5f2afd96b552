package forth

// stack is a bounded LIFO of words.
type stack struct {
	name  string
	limit int
	cells []Word
}

func (s *stack) init(name string, limit int) {
	s.name = name
	s.limit = limit
	s.cells = make([]Word, 0, limit)
}

func (s *stack) depth() int { return len(s.cells) }

func (s *stack) reset() { s.cells = s.cells[:0] }

// values returns a copy of the stack, bottom first; never nil.
func (s *stack) values() []Word {
	return append(make([]Word, 0, len(s.cells)), s.cells...)
}

func (s *stack) push(values ...Word) error {
	if len(s.cells)+len(values) > s.limit {
		return errorf(ErrStackOverflow, "%v stack limit %v", s.name, s.limit)
	}
	s.cells = append(s.cells, values...)
	return nil
}

func (s *stack) pop() (Word, error) {
	i := len(s.cells) - 1
	if i < 0 {
		return 0, s.underflow()
	}
	val := s.cells[i]
	s.cells = s.cells[:i]
	return val, nil
}

// pop2 pops the top two values, returning them in push order: b was on top.
func (s *stack) pop2() (a, b Word, err error) {
	i := len(s.cells) - 2
	if i < 0 {
		return 0, 0, s.underflow()
	}
	a, b = s.cells[i], s.cells[i+1]
	s.cells = s.cells[:i]
	return a, b, nil
}

// peek returns the i-th value from the top, 0 being the top itself.
func (s *stack) peek(i int) (Word, error) {
	j := len(s.cells) - 1 - i
	if i < 0 || j < 0 {
		return 0, s.underflow()
	}
	return s.cells[j], nil
}

// set replaces the i-th value from the top.
func (s *stack) set(i int, val Word) error {
	j := len(s.cells) - 1 - i
	if i < 0 || j < 0 {
		return s.underflow()
	}
	s.cells[j] = val
	return nil
}

func (s *stack) drop(n int) error {
	if n > len(s.cells) {
		return s.underflow()
	}
	s.cells = s.cells[:len(s.cells)-n]
	return nil
}

func (s *stack) underflow() error {
	return errorf(ErrStackUnderflow, "%v stack empty", s.name)
}
