// Package jfits reads and writes JWST-style calibrated exposure files:
// FITS files carrying SCI/ERR/DQ image extensions plus a primary header.
// Everything is normalized to 3D cubes on the way in, and collapsed back
// to 2D on the way out when the source was a single image.
package jfits

import(
	"fmt"
	"os"
	"path/filepath"

	"github.com/astrogo/fitsio"
	"github.com/pkg/errors"
)

var(
	ErrNotCube = errors.New("requires 2D/3D data cube")
	ErrNoData  = errors.New("could not find any data")
)

// An Obs is one exposure in memory: science values, errors and DQ flags,
// all the same shape, plus the two headers we care about.
type Obs struct {
	Data      Cube
	Erro      Cube
	Pxdq      DQCube
	PriHeader Header
	SciHeader Header
	Is2D      bool   // collapse back to 2D on write

	Filename  string // output basename, set by the pipeline when it saves
}

// ReadObs reads the SCI, ERR and DQ extensions of a calibrated exposure.
// 2D images come back as (1,H,W) cubes with Is2D set.
func ReadObs(fitsfile string) (*Obs, error) {
	r, err := os.Open(fitsfile)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v", fitsfile, err)
	}
	defer r.Close()

	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("fits open %s: %v", fitsfile, err)
	}
	defer f.Close()

	sci := findImageHDU(f, "SCI")
	if sci == nil {
		return nil, fmt.Errorf("%s: no SCI extension", fitsfile)
	}
	erro := findImageHDU(f, "ERR")
	if erro == nil {
		return nil, fmt.Errorf("%s: no ERR extension", fitsfile)
	}
	pxdq := findImageHDU(f, "DQ")
	if pxdq == nil {
		return nil, fmt.Errorf("%s: no DQ extension", fitsfile)
	}

	data, is2d, err := readCube(sci)
	if err != nil {
		return nil, errors.Wrapf(err, "%s SCI", fitsfile)
	}
	errc, _, err := readCube(erro)
	if err != nil {
		return nil, errors.Wrapf(err, "%s ERR", fitsfile)
	}
	dq, _, err := readDQCube(pxdq)
	if err != nil {
		return nil, errors.Wrapf(err, "%s DQ", fitsfile)
	}

	return &Obs{
		Data:      data,
		Erro:      errc,
		Pxdq:      dq,
		PriHeader: copyHeader(f.HDU(0).Header()),
		SciHeader: copyHeader(sci.Header()),
		Is2D:      is2d,
	}, nil
}

// WriteObs writes the exposure into outputDir, keeping the input basename.
func WriteObs(obs *Obs, fitsfile, outputDir string) (string, error) {
	out := filepath.Join(outputDir, filepath.Base(fitsfile))
	return out, WriteObsAs(obs, out)
}

// WriteObsAs writes the exposure to the named path. A cube that was
// normalized up from 2D is collapsed back to a 2D image on disk.
func WriteObsAs(obs *Obs, out string) error {
	w, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %v", out, err)
	}
	defer w.Close()

	f, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("fits create %s: %v", out, err)
	}
	defer f.Close()

	// Header-only primary HDU
	pri := fitsio.NewImage(8, []int{})
	defer pri.Close()
	if err := pri.Header().Append(obs.PriHeader...); err != nil {
		return fmt.Errorf("%s primary header: %v", out, err)
	}
	if err := f.Write(pri); err != nil {
		return fmt.Errorf("%s primary: %v", out, err)
	}

	dims := []int{obs.Data.NX, obs.Data.NY}
	if !obs.Is2D {
		dims = append(dims, obs.Data.NInts)
	}

	sciVals := obs.Data.Vals
	errVals := obs.Erro.Vals
	dqVals := obs.Pxdq.Vals
	if obs.Is2D {
		sciVals = obs.Data.Plane(0)
		errVals = obs.Erro.Plane(0)
		dqVals = obs.Pxdq.Plane(0)
	}

	if err := writeImageExt(f, "SCI", -32, dims, obs.SciHeader, &sciVals); err != nil {
		return errors.Wrap(err, out)
	}
	if err := writeImageExt(f, "ERR", -32, dims, nil, &errVals); err != nil {
		return errors.Wrap(err, out)
	}
	if err := writeImageExt(f, "DQ", 32, dims, nil, &dqVals); err != nil {
		return errors.Wrap(err, out)
	}

	return nil
}

// A Red is a generic reduced product: just data plus headers, no ERR/DQ.
type Red struct {
	Data      Cube
	PriHeader Header
	SciHeader Header // nil when the file has no SCI extension
	Is2D      bool
}

// ReadRed reads a reduced product, taking the data from the primary HDU
// or, failing that, from a SCI extension.
func ReadRed(fitsfile string) (*Red, error) {
	r, err := os.Open(fitsfile)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v", fitsfile, err)
	}
	defer r.Close()

	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("fits open %s: %v", fitsfile, err)
	}
	defer f.Close()

	red := Red{PriHeader: copyHeader(f.HDU(0).Header())}

	src, _ := f.HDU(0).(fitsio.Image)
	if src == nil || len(src.Header().Axes()) == 0 {
		src = findImageHDU(f, "SCI")
		if src == nil {
			return nil, errors.Wrap(ErrNoData, fitsfile)
		}
	}
	if sci := findImageHDU(f, "SCI"); sci != nil {
		red.SciHeader = copyHeader(sci.Header())
	}

	red.Data, red.Is2D, err = readCube(src)
	if err != nil {
		return nil, errors.Wrap(err, fitsfile)
	}
	return &red, nil
}

// ReadHeaders reads just the primary and SCI headers, plus the SCI axis
// lengths, for building database entries without loading pixels.
func ReadHeaders(fitsfile string) (pri, sci Header, naxes []int, err error) {
	r, err := os.Open(fitsfile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open %s: %v", fitsfile, err)
	}
	defer r.Close()

	f, err := fitsio.Open(r)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fits open %s: %v", fitsfile, err)
	}
	defer f.Close()

	pri = copyHeader(f.HDU(0).Header())
	if hdu := findImageHDU(f, "SCI"); hdu != nil {
		sci = copyHeader(hdu.Header())
		naxes = hdu.Header().Axes()
	} else {
		naxes = f.HDU(0).Header().Axes()
	}
	return pri, sci, naxes, nil
}

func findImageHDU(f *fitsio.File, name string) fitsio.Image {
	for _, hdu := range f.HDUs() {
		if hdu.Name() == name {
			if img, ok := hdu.(fitsio.Image); ok {
				return img
			}
		}
	}
	return nil
}

// readCube reads an image HDU into a float32 cube, normalizing 2D images
// to a single-integration cube. Any other rank is ErrNotCube.
func readCube(img fitsio.Image) (Cube, bool, error) {
	axes := img.Header().Axes()
	nints, ny, nx, is2d, err := cubeShape(axes)
	if err != nil {
		return Cube{}, false, err
	}

	c := Cube{NInts: nints, NY: ny, NX: nx}
	switch img.Header().Bitpix() {
	case -32:
		if err := img.Read(&c.Vals); err != nil {
			return Cube{}, false, fmt.Errorf("read image: %v", err)
		}
	case -64:
		var raw []float64
		if err := img.Read(&raw); err != nil {
			return Cube{}, false, fmt.Errorf("read image: %v", err)
		}
		c.Vals = make([]float32, len(raw))
		for i, v := range raw {
			c.Vals[i] = float32(v)
		}
	case 16:
		var raw []int16
		if err := img.Read(&raw); err != nil {
			return Cube{}, false, fmt.Errorf("read image: %v", err)
		}
		c.Vals = make([]float32, len(raw))
		for i, v := range raw {
			c.Vals[i] = float32(v)
		}
	case 32:
		var raw []int32
		if err := img.Read(&raw); err != nil {
			return Cube{}, false, fmt.Errorf("read image: %v", err)
		}
		c.Vals = make([]float32, len(raw))
		for i, v := range raw {
			c.Vals[i] = float32(v)
		}
	default:
		return Cube{}, false, fmt.Errorf("unsupported BITPIX %d", img.Header().Bitpix())
	}
	return c, is2d, nil
}

func readDQCube(img fitsio.Image) (DQCube, bool, error) {
	axes := img.Header().Axes()
	nints, ny, nx, is2d, err := cubeShape(axes)
	if err != nil {
		return DQCube{}, false, err
	}

	c := DQCube{NInts: nints, NY: ny, NX: nx}
	switch img.Header().Bitpix() {
	case 32:
		if err := img.Read(&c.Vals); err != nil {
			return DQCube{}, false, fmt.Errorf("read dq: %v", err)
		}
	case 16:
		var raw []int16
		if err := img.Read(&raw); err != nil {
			return DQCube{}, false, fmt.Errorf("read dq: %v", err)
		}
		c.Vals = make([]int32, len(raw))
		for i, v := range raw {
			c.Vals[i] = int32(v)
		}
	case 8:
		var raw []int8
		if err := img.Read(&raw); err != nil {
			return DQCube{}, false, fmt.Errorf("read dq: %v", err)
		}
		c.Vals = make([]int32, len(raw))
		for i, v := range raw {
			c.Vals[i] = int32(v)
		}
	default:
		return DQCube{}, false, fmt.Errorf("unsupported DQ BITPIX %d", img.Header().Bitpix())
	}
	return c, is2d, nil
}

// cubeShape maps FITS axes (x-fastest) to cube dimensions.
func cubeShape(axes []int) (nints, ny, nx int, is2d bool, err error) {
	switch len(axes) {
	case 2:
		return 1, axes[1], axes[0], true, nil
	case 3:
		return axes[2], axes[1], axes[0], false, nil
	default:
		return 0, 0, 0, false, errors.Wrapf(ErrNotCube, "rank %d", len(axes))
	}
}

func writeImageExt(f *fitsio.File, name string, bitpix int, dims []int, hdr Header, data interface{}) error {
	img := fitsio.NewImage(bitpix, dims)
	defer img.Close()

	cards := []fitsio.Card{{Name: "EXTNAME", Value: name, Comment: "extension name"}}
	for _, c := range hdr {
		if c.Name == "EXTNAME" {
			continue
		}
		cards = append(cards, c)
	}
	if err := img.Header().Append(cards...); err != nil {
		return fmt.Errorf("%s header: %v", name, err)
	}
	if err := img.Write(data); err != nil {
		return fmt.Errorf("%s data: %v", name, err)
	}
	if err := f.Write(img); err != nil {
		return fmt.Errorf("%s write: %v", name, err)
	}
	return nil
}
