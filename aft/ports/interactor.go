package ports

// Interactor is the outward-facing reporting port for pipeline drivers (CLI,
// notebooks, CI). Stage marks the start of a pipeline phase; Result carries
// the final human-readable evaluation table.
type Interactor interface {
	Stage(name string)
	Output(message string)
	Warning(message string)
	Error(message string, err error)
	Result(table string)
}
