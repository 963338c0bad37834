//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly || solaris || aix

package volume

import (
	"golang.org/x/sys/unix"
)

// remap maps the file into memory read-only. If mapping fails, it is a
// no-op and reads fall back to file I/O. Caller holds the write lock.
func (v *fileVolume) remap() error {
	if v.data != nil {
		_ = unix.Munmap(v.data)
		v.data = nil
	}
	if v.size == 0 || v.f == nil {
		return nil
	}
	b, err := unix.Mmap(int(v.f.Fd()), 0, int(v.size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil
	}
	v.data = b
	return nil
}

// unmap releases any active mapping. Caller holds the write lock.
func (v *fileVolume) unmap() {
	if v.data != nil {
		_ = unix.Munmap(v.data)
		v.data = nil
	}
}
