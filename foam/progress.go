package foam

// Progress is the cooperative progress/cancellation contract. Every
// callback result is a continue/stop signal: returning false cancels the
// export at the next checkpoint. Incr doubles as the cancellation
// checkpoint inside per-item loops.
type Progress interface {
	BeginStep(total int) bool
	Incr() bool
	EndStep() bool
	// Info reports a user-facing message, e.g. the auto-computed 2D
	// thickness.
	Info(msg string)
}

// NopProgress ignores all reporting and never cancels.
type NopProgress struct{}

func (NopProgress) BeginStep(int) bool { return true }
func (NopProgress) Incr() bool         { return true }
func (NopProgress) EndStep() bool      { return true }
func (NopProgress) Info(string)        {}
