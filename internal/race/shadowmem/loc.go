package shadowmem

import "strconv"

// Loc names a tracked variable. Index is -1 for scalars.
type Loc struct {
	Name  string
	Index int
}

// Scalar returns the location of a plain variable such as "sum".
func Scalar(name string) Loc {
	return Loc{Name: name, Index: -1}
}

// Index returns the location of one element of an array variable.
func Index(name string, i int) Loc {
	return Loc{Name: name, Index: i}
}

// Private returns the location of worker tid's copy of a privatized variable.
// Distinct workers get distinct locations, which is what privatization means.
func Private(name string, tid uint16) Loc {
	return Loc{Name: name + "#" + strconv.Itoa(int(tid)), Index: -1}
}

// IsIndexed reports whether the location is an array element.
func (l Loc) IsIndexed() bool {
	return l.Index >= 0
}

// String renders "sum" or "array[5]".
func (l Loc) String() string {
	if !l.IsIndexed() {
		return l.Name
	}
	return l.Name + "[" + strconv.Itoa(l.Index) + "]"
}
