package core

// OutputChunk is the single executable file the bundler produces for the bundle.
type OutputChunk struct {
	FileName string
	Code     string
}
