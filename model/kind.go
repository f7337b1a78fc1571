package model

// Kind names one of the owned entity types in the ownership graph.
type Kind string

const (
	KindUser   Kind = "user"
	KindFolder Kind = "folder"
	KindNote   Kind = "note"
	KindTask   Kind = "task"
	KindPet    Kind = "pet"
)

func (k Kind) Valid() bool {
	switch k {
	case KindUser, KindFolder, KindNote, KindTask, KindPet:
		return true
	}
	return false
}

// ParseKind converts a wire/CLI string into a Kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	return k, k.Valid()
}
