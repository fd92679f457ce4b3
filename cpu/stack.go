package cpu

const (
	MAX_DEPTH = 100 // Default operand stack depth.
)

// Stack is the operand stack. Its storage is allocated once, at its full
// depth, and never grows.
type Stack struct {
	Data []int
}

// NewStack creates an empty stack holding at most depth values.
func NewStack(depth int) *Stack {
	return &Stack{Data: make([]int, 0, depth)}
}

// Need checks that pop values can be taken from the stack, and that push
// values can then be placed on it, before any of them are.
func (s *Stack) Need(pop, push int) (err error) {
	if len(s.Data) < pop {
		err = StackUnderflow
		return
	}
	if len(s.Data)-pop+push > cap(s.Data) {
		err = StackOverflow
		return
	}
	return
}

func (s *Stack) Push(value int) (err error) {
	err = s.Need(0, 1)
	if err != nil {
		return
	}
	s.Data = append(s.Data, value)
	return
}

func (s *Stack) Pop() (value int, err error) {
	value, err = s.Peek()
	if err == nil {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Peek() (value int, err error) {
	if s.Empty() {
		err = StackUnderflow
		return
	}

	return s.Data[len(s.Data)-1], nil
}

func (s *Stack) Depth() int {
	return len(s.Data)
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) == cap(s.Data)
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
