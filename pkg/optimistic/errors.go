package optimistic

import "errors"

var (
	ErrMissingApply   = errors.New("optimistic: mutation has no apply step")
	ErrMissingCall    = errors.New("optimistic: mutation has no network call")
	ErrUngroupedStore = errors.New("optimistic: store cannot snapshot under the mutation's lock group")
)
