package direct

import (
	"github.com/viant/recstore/codec"
)

// writerPoolSize bounds the number of scratch writers kept for reuse.
const writerPoolSize = 128

// writerPool recycles scratch writers across operations. Get and put
// never block; surplus writers are dropped.
type writerPool struct {
	pool chan *codec.Writer
}

func newWriterPool() *writerPool {
	return &writerPool{pool: make(chan *codec.Writer, writerPoolSize)}
}

func (p *writerPool) get() *codec.Writer {
	select {
	case w := <-p.pool:
		w.Reset()
		return w
	default:
		return codec.NewWriter()
	}
}

func (p *writerPool) put(w *codec.Writer) {
	if w == nil {
		return
	}
	select {
	case p.pool <- w:
	default:
	}
}
