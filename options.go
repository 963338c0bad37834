package recstore

// Options controls store behaviour shared by all engine implementations.
type Options struct {

	// ReadOnly opens the store for reading only; Commit and Close skip
	// header writes and Compact refuses.
	ReadOnly bool

	// DeleteFilesAfterClose removes both backing files on Close.
	DeleteFilesAfterClose bool

	// SpaceReclaimMode tunes free-space handling in [0..5]:
	// 0 disables tracking, 1..2 track without reuse, 3+ track and reuse.
	SpaceReclaimMode int

	// SyncOnCommitDisabled skips the volume sync on Commit.
	SyncOnCommitDisabled bool

	// SizeLimit caps the data-file size in bytes, 0 for unlimited.
	SizeLimit int64
}

// SpaceReclaimTrack reports whether freed space and recids are recorded.
func (o *Options) SpaceReclaimTrack() bool {
	return o.SpaceReclaimMode > 0
}

// SpaceReclaimReuse reports whether recorded free space is reallocated.
func (o *Options) SpaceReclaimReuse() bool {
	return o.SpaceReclaimMode > 2
}

// NewOptions creates Options with defaults and applies opts.
func NewOptions(opts ...Option) *Options {
	options := &Options{SpaceReclaimMode: 5}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithReadOnly opens the store in read-only mode.
func WithReadOnly(readOnly bool) Option {
	return func(o *Options) {
		o.ReadOnly = readOnly
	}
}

// WithDeleteFilesAfterClose removes backing files on Close.
func WithDeleteFilesAfterClose(remove bool) Option {
	return func(o *Options) {
		o.DeleteFilesAfterClose = remove
	}
}

// WithSpaceReclaimMode sets the free-space handling mode [0..5].
func WithSpaceReclaimMode(mode int) Option {
	return func(o *Options) {
		o.SpaceReclaimMode = mode
	}
}

// WithSyncOnCommitDisabled skips volume sync on Commit.
func WithSyncOnCommitDisabled(disabled bool) Option {
	return func(o *Options) {
		o.SyncOnCommitDisabled = disabled
	}
}

// WithSizeLimit caps the data-file size in bytes.
func WithSizeLimit(limit int64) Option {
	return func(o *Options) {
		o.SizeLimit = limit
	}
}
