package cpu

const (
	MAX_LABELS = 1000 // Default symbol table capacity.
)

// Label is a named instruction address.
type Label struct {
	Name    string `cbor:"1,keyasint"`
	Address int    `cbor:"2,keyasint"`
}

// SymbolTable maps label names to addresses. Labels are only ever
// appended, and lookups scan in definition order, so the first definition
// of a name wins.
type SymbolTable struct {
	Labels []Label
}

// NewSymbolTable creates an empty table holding at most capacity labels.
func NewSymbolTable(capacity int) *SymbolTable {
	return &SymbolTable{Labels: make([]Label, 0, capacity)}
}

// Add appends a label.
func (st *SymbolTable) Add(name string, address int) (err error) {
	if len(st.Labels) == cap(st.Labels) {
		err = TooManyLabels
		return
	}

	st.Labels = append(st.Labels, Label{Name: name, Address: address})

	return
}

// Resolve returns the address of the first label with the name.
func (st *SymbolTable) Resolve(name string) (address int, ok bool) {
	for _, label := range st.Labels {
		if label.Name == name {
			return label.Address, true
		}
	}

	return NoValue, false
}

// Lookup returns the address of a label, or NoValue if it is undefined.
func (st *SymbolTable) Lookup(name string) (address int) {
	address, _ = st.Resolve(name)
	return
}

// At returns the names of the labels at an address, in definition order.
func (st *SymbolTable) At(address int) (names []string) {
	if st == nil {
		return
	}

	for _, label := range st.Labels {
		if label.Address == address {
			names = append(names, label.Name)
		}
	}

	return
}

// Len returns the number of labels.
func (st *SymbolTable) Len() int {
	return len(st.Labels)
}
