// Package outfile implements the binary output file: a fixed prolog
// (version, element counts, flow units and a length-prefixed title; element
// IDs are not written), per-reporting-period node/link
// result blocks, and an epilog recording energy usage, warning counts, and
// the magic-number trailer (spec.md §4.6/§6).
//
// Results are stored as 4-byte IEEE 754 floats (the reference engine's
// documented on-disk precision, half the size of the hydraulics scratch
// file's float64 working precision) and INT32 integers, via
// encoding/binary for the same reason as package hydfile: no pack library
// offers a binary codec, so stdlib is the justified choice (DESIGN.md).
package outfile

import (
	"bufio"
	"encoding/binary"
	"os"

	"github.com/katalvlaran/hydronet/errs"
)

const trailerMagic int32 = 0x980624 // reference engine's output-file magic number

// Prolog is the fixed header written once at the start of a run.
type Prolog struct {
	Version  int32
	Nnodes   int32
	Nlinks   int32
	Ntanks   int32
	Npumps   int32
	Nvalves  int32
	FlowUnits int32
	Title    string
}

// Epilog is written once at the end of a run.
type Epilog struct {
	TotalEnergyKWh float64
	PeakPumpKW     float64
	WarningCount   int32
}

// NodeResult and LinkResult are one reporting period's per-element output,
// stored at 4-byte float precision.
type NodeResult struct {
	Demand, Head, Pressure, Quality []float32
}

type LinkResult struct {
	Flow, Velocity, Headloss, Quality []float32
	Status                            []int32
	Setting                           []float32
}

// Writer streams prolog, per-period blocks, and epilog to an output file.
type Writer struct {
	f *os.File
	w *bufio.Writer
	p Prolog
}

// Create truncates (or creates) path, writes the prolog, and returns a
// Writer ready for per-period WriteNodeResult/WriteLinkResult calls.
func Create(path string, p Prolog) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrOutputOpen, path, err)
	}
	w := &Writer{f: f, w: bufio.NewWriter(f), p: p}
	if err := w.writeProlog(); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) writeProlog() error {
	fields := []int32{w.p.Version, w.p.Nnodes, w.p.Nlinks, w.p.Ntanks, w.p.Npumps, w.p.Nvalves, w.p.FlowUnits}
	for _, v := range fields {
		if err := binary.Write(w.w, binary.LittleEndian, v); err != nil {
			return errs.Wrap(errs.ErrOutputOpen, "prolog", err)
		}
	}
	titleBytes := []byte(w.p.Title)
	if err := binary.Write(w.w, binary.LittleEndian, int32(len(titleBytes))); err != nil {
		return errs.Wrap(errs.ErrOutputOpen, "title length", err)
	}
	if _, err := w.w.Write(titleBytes); err != nil {
		return errs.Wrap(errs.ErrOutputOpen, "title", err)
	}
	return nil
}

// WriteNodeResult appends one period's node-results block.
func (w *Writer) WriteNodeResult(r NodeResult) error {
	for _, group := range [][]float32{r.Demand, r.Head, r.Pressure, r.Quality} {
		for _, v := range group {
			if err := binary.Write(w.w, binary.LittleEndian, v); err != nil {
				return errs.Wrap(errs.ErrOutputOpen, "node result", err)
			}
		}
	}
	return nil
}

// WriteLinkResult appends one period's link-results block.
func (w *Writer) WriteLinkResult(r LinkResult) error {
	for _, group := range [][]float32{r.Flow, r.Velocity, r.Headloss, r.Quality} {
		for _, v := range group {
			if err := binary.Write(w.w, binary.LittleEndian, v); err != nil {
				return errs.Wrap(errs.ErrOutputOpen, "link result", err)
			}
		}
	}
	for _, s := range r.Status {
		if err := binary.Write(w.w, binary.LittleEndian, s); err != nil {
			return errs.Wrap(errs.ErrOutputOpen, "link status", err)
		}
	}
	for _, v := range r.Setting {
		if err := binary.Write(w.w, binary.LittleEndian, v); err != nil {
			return errs.Wrap(errs.ErrOutputOpen, "link setting", err)
		}
	}
	return nil
}

// WriteEpilog writes the closing summary block and the magic-number
// trailer, after which the file is complete.
func (w *Writer) WriteEpilog(e Epilog) error {
	if err := binary.Write(w.w, binary.LittleEndian, float32(e.TotalEnergyKWh)); err != nil {
		return errs.Wrap(errs.ErrOutputOpen, "epilog energy", err)
	}
	if err := binary.Write(w.w, binary.LittleEndian, float32(e.PeakPumpKW)); err != nil {
		return errs.Wrap(errs.ErrOutputOpen, "epilog peak", err)
	}
	if err := binary.Write(w.w, binary.LittleEndian, e.WarningCount); err != nil {
		return errs.Wrap(errs.ErrOutputOpen, "epilog warnings", err)
	}
	if err := binary.Write(w.w, binary.LittleEndian, trailerMagic); err != nil {
		return errs.Wrap(errs.ErrOutputOpen, "trailer", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.f.Close()
}

// Reader opens an existing output file, positioned just past the prolog.
type Reader struct {
	f      *os.File
	r      *bufio.Reader
	Prolog Prolog
}

// Open opens path and reads its prolog.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrOutputOpen, path, err)
	}
	r := bufio.NewReader(f)
	var p Prolog
	fields := []*int32{&p.Version, &p.Nnodes, &p.Nlinks, &p.Ntanks, &p.Npumps, &p.Nvalves, &p.FlowUnits}
	for _, field := range fields {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			f.Close()
			return nil, errs.Wrap(errs.ErrOutputOpen, "prolog", err)
		}
	}
	var titleLen int32
	if err := binary.Read(r, binary.LittleEndian, &titleLen); err != nil {
		f.Close()
		return nil, errs.Wrap(errs.ErrOutputOpen, "title length", err)
	}
	titleBytes := make([]byte, titleLen)
	if _, err := r.Read(titleBytes); err != nil && titleLen > 0 {
		f.Close()
		return nil, errs.Wrap(errs.ErrOutputOpen, "title", err)
	}
	p.Title = string(titleBytes)
	return &Reader{f: f, r: r, Prolog: p}, nil
}

// Close closes the underlying file.
func (rd *Reader) Close() error { return rd.f.Close() }
