package types

// Service exposes named methods with typed input and output.
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}
