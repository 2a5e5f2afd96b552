package forth

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// A core image is a little-endian snapshot of engine state:
//
//     magic    4 bytes  "FRTH"
//     version  2 bytes
//     width    1 byte   bytes per word
//     mode     1 byte   0 interpreting, 1 compiling
//     base     2 bytes
//     head     2 bytes  latest dictionary entry
//     here     2 bytes
//     dDepth   2 bytes, then dDepth data stack words, bottom first
//     rDepth   2 bytes, then rDepth return stack words, bottom first
//     core     here words, from address 0
const (
	imageMagic   = "FRTH"
	imageVersion = 1
	imageWidth   = 2
)

// Image is a decoded core image.
type Image struct {
	Version   uint16
	Compiling bool
	Base      Word
	Head      Word
	Here      Word
	Stack     []Word
	RStack    []Word
	Core      []Word
}

type imageHeader struct {
	Magic   [4]byte
	Version uint16
	Width   uint8
	Mode    uint8
	Base    Word
	Head    Word
	Here    Word
}

var errBadImage = errors.New("invalid core image")

// MarshalBinary encodes the image.
func (img *Image) MarshalBinary() ([]byte, error) {
	if len(img.Core) != int(img.Here) {
		return nil, fmt.Errorf("%w: core has %v words, but here is %v", errBadImage, len(img.Core), img.Here)
	}
	hdr := imageHeader{
		Version: imageVersion,
		Width:   imageWidth,
		Base:    img.Base,
		Head:    img.Head,
		Here:    img.Here,
	}
	copy(hdr.Magic[:], imageMagic)
	if img.Compiling {
		hdr.Mode = 1
	}

	var buf bytes.Buffer
	buf.Grow(16 + 2*(2+len(img.Stack)+len(img.RStack)+len(img.Core)))
	for _, data := range []interface{}{
		hdr,
		uint16(len(img.Stack)), img.Stack,
		uint16(len(img.RStack)), img.RStack,
		img.Core,
	} {
		if err := binary.Write(&buf, binary.LittleEndian, data); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes an image, which must be complete, with nothing
// trailing it.
func (img *Image) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	var hdr imageHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("%w: header: %v", errBadImage, err)
	}
	if string(hdr.Magic[:]) != imageMagic {
		return fmt.Errorf("%w: bad magic %q", errBadImage, hdr.Magic[:])
	}
	if hdr.Version != imageVersion {
		return fmt.Errorf("%w: unsupported version %v", errBadImage, hdr.Version)
	}
	if hdr.Width != imageWidth {
		return fmt.Errorf("%w: unsupported word width %v", errBadImage, hdr.Width)
	}

	readWords := func(what string, n int) ([]Word, error) {
		if 2*n > r.Len() {
			return nil, fmt.Errorf("%w: truncated %v", errBadImage, what)
		}
		words := make([]Word, n)
		if err := binary.Read(r, binary.LittleEndian, words); err != nil {
			return nil, fmt.Errorf("%w: %v: %v", errBadImage, what, err)
		}
		return words, nil
	}
	readStack := func(what string) ([]Word, error) {
		var depth uint16
		if err := binary.Read(r, binary.LittleEndian, &depth); err != nil {
			return nil, fmt.Errorf("%w: %v depth: %v", errBadImage, what, err)
		}
		return readWords(what, int(depth))
	}

	stack, err := readStack("data stack")
	if err != nil {
		return err
	}
	rstack, err := readStack("return stack")
	if err != nil {
		return err
	}
	core, err := readWords("core", int(hdr.Here))
	if err != nil {
		return err
	}
	if r.Len() > 0 {
		return fmt.Errorf("%w: %v trailing bytes", errBadImage, r.Len())
	}

	*img = Image{
		Version:   hdr.Version,
		Compiling: hdr.Mode != 0,
		Base:      hdr.Base,
		Head:      hdr.Head,
		Here:      hdr.Here,
		Stack:     stack,
		RStack:    rstack,
		Core:      core,
	}
	return nil
}

// ReadImage reads and decodes a core image, as written by DumpCore.
// Images are only for inspection: there is no way to resume an engine from
// one.
func ReadImage(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, kindError(ErrInputError, err)
	}
	var img Image
	if err := img.UnmarshalBinary(data); err != nil {
		return nil, kindError(ErrInputError, err)
	}
	return &img, nil
}

// DumpCore writes a core image of the engine to w, in a single write.
// The engine is not changed, even if w fails.
func (f *Forth) DumpCore(w io.Writer) error {
	if err := f.valid(); err != nil {
		return err
	}
	img, err := f.snapshot()
	if err != nil {
		return err
	}
	data, err := img.MarshalBinary()
	if err != nil {
		return kindError(ErrInternal, err)
	}
	n, err := w.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return kindError(ErrInputError, err)
	}
	f.logf("dump %v bytes here:%v", n, img.Here)
	return nil
}

func (f *Forth) snapshot() (*Image, error) {
	h, err := f.here()
	if err != nil {
		return nil, err
	}
	var regs [regBase + 1]Word
	if err := addrError(f.mem.LoadInto(0, regs[:])); err != nil {
		return nil, err
	}
	img := &Image{
		Version:   imageVersion,
		Compiling: regs[regState] != 0,
		Base:      regs[regBase],
		Head:      regs[regLatest],
		Here:      h,
		Stack:     f.stack.values(),
		RStack:    f.rstack.values(),
		Core:      make([]Word, h),
	}
	if err := addrError(f.mem.LoadInto(0, img.Core)); err != nil {
		return nil, err
	}
	return img, nil
}
