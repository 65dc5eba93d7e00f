package telemetry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// csvTable appends rows of one record type, writing the header with the first row only.
type csvTable[T any] struct {
	w             io.Writer
	headerWritten bool
}

func (t *csvTable[T]) write(rows ...T) error {
	if len(rows) == 0 {
		return nil
	}
	if !t.headerWritten {
		if err := gocsv.Marshal(rows, t.w); err != nil {
			return err
		}
		t.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, t.w)
}

// Output writes frames.csv and windows.csv. A nil *Output discards everything.
type Output struct {
	dir     string
	files   []*os.File
	frames  csvTable[FrameRecord]
	windows csvTable[WindowStats]
}

// NewOutput creates dir and the CSV files inside it. It returns nil, nil when dir is empty.
func NewOutput(dir string) (*Output, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	o := &Output{dir: dir}
	for _, name := range []string{"frames.csv", "windows.csv"} {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			o.Close()
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		o.files = append(o.files, f)
	}
	o.frames.w = o.files[0]
	o.windows.w = o.files[1]
	return o, nil
}

// NewWriterOutput writes both tables to caller-provided writers.
func NewWriterOutput(frames, windows io.Writer) *Output {
	o := &Output{}
	o.frames.w = frames
	o.windows.w = windows
	return o
}

func (o *Output) Dir() string {
	if o == nil {
		return ""
	}
	return o.dir
}

func (o *Output) WriteFrame(r FrameRecord) error {
	if o == nil {
		return nil
	}
	if err := o.frames.write(r); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

func (o *Output) WriteWindow(ws WindowStats) error {
	if o == nil {
		return nil
	}
	if err := o.windows.write(ws); err != nil {
		return fmt.Errorf("writing window: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	if o == nil {
		return nil
	}
	var errs []error
	for _, f := range o.files {
		errs = append(errs, f.Close())
	}
	o.files = nil
	return errors.Join(errs...)
}
