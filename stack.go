package bptree

// stackElement records one internal node on a descent path and the child slot
// that was followed out of it.
type stackElement struct {
	node nodeRef
	tag  int
}

type stack struct {
	list []stackElement
}

func (s *stack) push(e stackElement) {
	s.list = append(s.list, e)
}

func (s *stack) pop() stackElement {
	if len(s.list) == 0 {
		return stackElement{
			node: nilRef,
		}
	}
	v := s.list[len(s.list)-1]
	s.list = s.list[:len(s.list)-1]
	return v
}

func (s *stack) peek() stackElement {
	if len(s.list) == 0 {
		return stackElement{}
	} else {
		return s.list[len(s.list)-1]
	}
}

func (s *stack) size() int {
	return len(s.list)
}

func (s *stack) reset() {
	s.list = s.list[:0]
}
