// Package hydfile implements the binary hydraulics scratch file: the
// streaming handoff between the hydraulic solver and the water-quality
// solver, and the savehydfile/usehydfile interoperability feature.
//
// Layout (spec.md §4.6/§6):
//
//	Header: magic 0x200 (int32), engine version (int32),
//	        Nnodes, Nlinks, Ntanks, Npumps, Nvalves, Duration (int32 x6).
//	Per period: time (int32), demand[Nnodes] (float64),
//	            head[Nnodes] (float64), flow[Nlinks] (float64),
//	            status[Nlinks] (int32), setting[Nlinks] (float64).
//
// Grounded on encoding/binary as the only library in the retrieved pack
// capable of emitting this exact bit layout — gonum and the graph
// libraries have no binary-codec surface, so this is the one place a
// stdlib-only implementation is the correct choice (see DESIGN.md).
package hydfile

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/katalvlaran/hydronet/errs"
)

const magic int32 = 0x200

// Header describes the network-size fields stamped at file creation and
// validated on every subsequent open.
type Header struct {
	Version int32
	Nnodes  int32
	Nlinks  int32
	Ntanks  int32
	Npumps  int32
	Nvalves int32
	Duration int32
}

// Period is one converged hydraulic result, the fixed-layout record
// described in spec.md §4.6.
type Period struct {
	Time    int32
	Demand  []float64
	Head    []float64
	Flow    []float64
	Status  []int32
	Setting []float64
}

// Writer appends Periods to a hydraulics scratch file, writing the header
// on the first call.
type Writer struct {
	f      *os.File
	w      *bufio.Writer
	header Header
	wrote  bool
}

// Create truncates (or creates) path and returns a Writer bound to it.
func Create(path string, header Header, engineVersion int32) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrHydFileOpen, path, err)
	}
	header.Version = engineVersion
	return &Writer{f: f, w: bufio.NewWriter(f), header: header}, nil
}

func (w *Writer) writeHeader() error {
	fields := []int32{magic, w.header.Version, w.header.Nnodes, w.header.Nlinks, w.header.Ntanks, w.header.Npumps, w.header.Nvalves, w.header.Duration}
	for _, v := range fields {
		if err := binary.Write(w.w, binary.LittleEndian, v); err != nil {
			return errs.Wrap(errs.ErrHydFileOpen, "header", err)
		}
	}
	w.wrote = true
	return nil
}

// WritePeriod appends one period's record, writing the header first if it
// hasn't been written yet.
func (w *Writer) WritePeriod(p Period) error {
	if !w.wrote {
		if err := w.writeHeader(); err != nil {
			return err
		}
	}
	if err := binary.Write(w.w, binary.LittleEndian, p.Time); err != nil {
		return wrapWrite(err)
	}
	for _, group := range [][]float64{p.Demand, p.Head, p.Flow} {
		for _, v := range group {
			if err := binary.Write(w.w, binary.LittleEndian, v); err != nil {
				return wrapWrite(err)
			}
		}
	}
	for _, s := range p.Status {
		if err := binary.Write(w.w, binary.LittleEndian, s); err != nil {
			return wrapWrite(err)
		}
	}
	for _, v := range p.Setting {
		if err := binary.Write(w.w, binary.LittleEndian, v); err != nil {
			return wrapWrite(err)
		}
	}
	return nil
}

func wrapWrite(err error) error {
	return errs.Wrap(errs.ErrHydFileOpen, "period write", err)
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.f.Close()
}

// Reader streams Periods back out of a hydraulics scratch file, validating
// the header against the network sizes the caller expects.
type Reader struct {
	f      *os.File
	r      *bufio.Reader
	Header Header
}

// Open opens path and validates its header's Nnodes, Nlinks, Ntanks,
// Npumps and Nvalves fields against want; a mismatch returns
// ErrHydFileShape. Duration is read into Header but not compared.
func Open(path string, want Header) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrHydFileOpen, path, err)
	}
	r := bufio.NewReader(f)

	var m, version int32
	if err := binary.Read(r, binary.LittleEndian, &m); err != nil {
		f.Close()
		return nil, errs.Wrap(errs.ErrHydFileOpen, "magic", err)
	}
	if m != magic {
		f.Close()
		return nil, errs.Wrap(errs.ErrHydFileShape, "bad magic", nil)
	}
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		f.Close()
		return nil, errs.Wrap(errs.ErrHydFileOpen, "version", err)
	}
	var h Header
	h.Version = version
	for _, field := range []*int32{&h.Nnodes, &h.Nlinks, &h.Ntanks, &h.Npumps, &h.Nvalves, &h.Duration} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			f.Close()
			return nil, errs.Wrap(errs.ErrHydFileOpen, "header field", err)
		}
	}
	if h.Nnodes != want.Nnodes || h.Nlinks != want.Nlinks || h.Ntanks != want.Ntanks ||
		h.Npumps != want.Npumps || h.Nvalves != want.Nvalves {
		f.Close()
		return nil, errs.ErrHydFileShape
	}
	return &Reader{f: f, r: r, Header: h}, nil
}

// ReadPeriod reads the next period record, or io.EOF when the file is
// exhausted.
func (rd *Reader) ReadPeriod() (Period, error) {
	var p Period
	if err := binary.Read(rd.r, binary.LittleEndian, &p.Time); err != nil {
		return Period{}, err
	}
	n := int(rd.Header.Nnodes)
	l := int(rd.Header.Nlinks)
	p.Demand = make([]float64, n)
	p.Head = make([]float64, n)
	p.Flow = make([]float64, l)
	p.Setting = make([]float64, l)
	p.Status = make([]int32, l)

	for _, group := range [][]float64{p.Demand, p.Head, p.Flow} {
		for i := range group {
			if err := binary.Read(rd.r, binary.LittleEndian, &group[i]); err != nil {
				return Period{}, readErr(err)
			}
		}
	}
	for i := range p.Status {
		if err := binary.Read(rd.r, binary.LittleEndian, &p.Status[i]); err != nil {
			return Period{}, readErr(err)
		}
	}
	for i := range p.Setting {
		if err := binary.Read(rd.r, binary.LittleEndian, &p.Setting[i]); err != nil {
			return Period{}, readErr(err)
		}
	}
	return p, nil
}

func readErr(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Close closes the underlying file.
func (rd *Reader) Close() error { return rd.f.Close() }
