package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"

	"github.com/YLivay/delimited/log"
)

// jobFunc processes one prepared input, writing its output to out. name is
// the input as the user gave it.
type jobFunc func(ctx context.Context, name string, input io.Reader, out io.Writer) error

// jobOptions says how inputs are prepared before a jobFunc sees them.
type jobOptions struct {
	enc encoding.Encoding
	// needSeek makes every input seekable, spooling it when it is not.
	needSeek bool
}

// job is the parse of one input source.
type job struct {
	id   uuid.UUID
	name string
	out  io.Writer
	// Temporary file holding the output of a job that may not write to the
	// shared output yet. nil for the first job.
	spill *os.File
	err   error
	taken time.Duration
	done  chan struct{}
}

func (j *job) run(ctx context.Context, opts jobOptions, work jobFunc) {
	start := time.Now()
	defer close(j.done)
	defer func() { j.taken = time.Since(start) }()

	log.Debugf("Job %s: reading %s", j.id, j.name)
	input, cleanup, err := prepareInput(j.name, opts.enc, opts.needSeek)
	if err != nil {
		j.err = err
		return
	}
	defer cleanup()

	j.err = work(ctx, j.name, input, j.out)
}

// runJobs runs work over every input, one goroutine per input. The first
// input streams straight to out. The others write to temporary files, each
// copied to out as soon as every input before it is done, so outputs keep
// input order and never interleave.
func runJobs(ctx context.Context, inputs []string, opts jobOptions, out io.Writer, work jobFunc) error {
	if err := checkInputs(inputs); err != nil {
		return err
	}

	jobs := make([]*job, 0, len(inputs))
	for i, name := range inputs {
		j := &job{id: uuid.New(), name: name, out: out, done: make(chan struct{})}
		if i > 0 {
			spill, err := os.CreateTemp("", "delimited-out-*.tmp")
			if err != nil {
				for _, prev := range jobs {
					if prev.spill != nil {
						disposeTemp(prev.spill)
					}
				}
				return fmt.Errorf("failed to create temporary file: %w", err)
			}
			j.spill = spill
			j.out = spill
		}
		jobs = append(jobs, j)
	}

	for _, j := range jobs {
		go j.run(ctx, opts, work)
	}

	var errs []error
	var writeErr error
	for i, j := range jobs {
		<-j.done

		if j.spill != nil {
			if writeErr == nil {
				writeErr = copySpill(out, j.spill)
			}
			disposeTemp(j.spill)
		}

		if j.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", j.name, j.err))
			continue
		}
		log.Printf("Format of delimited %s completed in %d ms", sourceLabel(j.name, i, len(jobs)), j.taken.Milliseconds())
	}
	if writeErr != nil {
		errs = append(errs, fmt.Errorf("failed to write output: %w", writeErr))
	}
	return errors.Join(errs...)
}

func copySpill(out io.Writer, spill *os.File) error {
	if _, err := spill.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := io.Copy(out, spill)
	return err
}

// checkInputs rejects reading stdin more than once.
func checkInputs(inputs []string) error {
	stdin := 0
	for _, name := range inputs {
		if name == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return errors.New("stdin can only be read once")
	}
	return nil
}

func sourceLabel(name string, i, total int) string {
	if name != "-" {
		return "file " + name
	}
	if total == 1 {
		return "data"
	}
	return fmt.Sprintf("data %d/%d", i+1, total)
}
