package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/kelwig/lzkit/internal/xlog"
	"github.com/kelwig/lzkit/lzma"
)

const lzmaSuffix = ".lzma"

// writerConfig converts a preset into writer parameters. The dictionary
// size exponents follow the usual preset ladder; the high presets enable
// the optimizing parser.
func writerConfig(preset int) lzma.WriterConfig {
	dictSizeExps := []uint{18, 20, 21, 22, 22, 23, 23, 24, 25, 26}
	c := lzma.WriterConfig{
		DictSize: 1 << dictSizeExps[preset],
		BufSize:  16 * 1024,
	}
	if preset >= 7 {
		c.Optimal = true
		c.Depth = 64
	}
	return c
}

// packer processes a single stream in one direction.
type packer interface {
	outputPaths(path string) (outputPath, tmpPath string, err error)
	pack(w io.Writer, r io.Reader, preset int) (n int64, err error)
}

type compressor struct{}

func (compressor) outputPaths(path string) (out, tmp string, err error) {
	if path == "-" {
		return "-", "-", nil
	}
	if path == "" {
		return "", "", errors.New("path is empty")
	}
	if strings.HasSuffix(path, lzmaSuffix) {
		return "", "", fmt.Errorf("path %s has suffix %s -- ignored",
			path, lzmaSuffix)
	}
	out = path + lzmaSuffix
	tmp = out + ".pack"
	return out, tmp, nil
}

func (compressor) pack(w io.Writer, r io.Reader, preset int) (n int64, err error) {
	bw := bufio.NewWriter(w)
	lw, err := writerConfig(preset).NewWriter(bw)
	if err != nil {
		return 0, err
	}
	if n, err = io.Copy(lw, r); err != nil {
		return n, err
	}
	if err = lw.Close(); err != nil {
		return n, err
	}
	return n, bw.Flush()
}

type decompressor struct{}

func (decompressor) outputPaths(path string) (out, tmp string, err error) {
	if path == "-" {
		return "-", "-", nil
	}
	if !strings.HasSuffix(path, lzmaSuffix) {
		return "", "", fmt.Errorf("path %s has no suffix %s",
			path, lzmaSuffix)
	}
	if filepath.Base(path) == lzmaSuffix {
		return "", "", fmt.Errorf(
			"path %s has only suffix %s as filename",
			path, lzmaSuffix)
	}
	out = path[:len(path)-len(lzmaSuffix)]
	tmp = out + ".unpack"
	return out, tmp, nil
}

func (decompressor) pack(w io.Writer, r io.Reader, preset int) (n int64, err error) {
	lr, err := lzma.NewReader(bufio.NewReader(r))
	if err != nil {
		return 0, err
	}
	return io.Copy(w, lr)
}

// signalHandler removes the temporary file if the process is interrupted.
func signalHandler(tmpPath string) chan<- struct{} {
	quit := make(chan struct{})
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt)
	go func() {
		select {
		case <-quit:
			signal.Stop(sigch)
		case <-sigch:
			if tmpPath != "-" {
				os.Remove(tmpPath)
			}
			os.Exit(7)
		}
	}()
	return quit
}

func packFile(pck packer, path, tmpPath string, opts *options) (err error) {
	var r *os.File
	if path == "-" {
		r = os.Stdin
	} else {
		fi, err := os.Lstat(path)
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return fmt.Errorf("%s is not a regular file", path)
		}
		if r, err = os.Open(path); err != nil {
			return err
		}
	}
	defer func() {
		if cerr := r.Close(); err == nil {
			err = cerr
		}
	}()

	var w *os.File
	if tmpPath == "-" {
		w = os.Stdout
	} else {
		if opts.force {
			os.Remove(tmpPath)
		}
		w, err = os.OpenFile(tmpPath,
			os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := w.Close(); err == nil {
				err = cerr
			}
		}()
	}

	n, err := pck.pack(w, r, opts.preset)
	if err != nil {
		return err
	}
	xlog.Verbosef("%s: %d bytes processed", path, n)
	return nil
}

// userError converts a path error into a message without the name of the
// failing system call, which is of no use for the user.
func userError(err error) error {
	pe, ok := err.(*os.PathError)
	if !ok {
		return err
	}
	return errors.Errorf("%s: %s", pe.Path, pe.Err)
}

func processFile(path string, opts *options) {
	var pck packer
	if opts.decompress {
		pck = decompressor{}
	} else {
		pck = compressor{}
	}
	outputPath, tmpPath, err := pck.outputPaths(path)
	if err != nil {
		xlog.Warn(userError(err))
		return
	}
	if opts.stdout {
		outputPath, tmpPath = "-", "-"
	}
	if outputPath != "-" {
		if _, err = os.Lstat(outputPath); err == nil && !opts.force {
			xlog.Warnf("file %s exists", outputPath)
			return
		}
	}
	defer func() {
		if tmpPath != "-" {
			os.Remove(tmpPath)
		}
	}()
	quit := signalHandler(tmpPath)
	defer close(quit)

	if err = packFile(pck, path, tmpPath, opts); err != nil {
		xlog.Warn(userError(err))
		return
	}
	if tmpPath != "-" && outputPath != "-" {
		if err = os.Rename(tmpPath, outputPath); err != nil {
			xlog.Warn(userError(err))
			return
		}
	}
	if !opts.keep && !opts.stdout && path != "-" {
		if err = os.Remove(path); err != nil {
			xlog.Warn(userError(err))
		}
	}
}
