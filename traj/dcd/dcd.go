/*
 * dcd.go, part of rnamd.
 *
 * Copyright 2026 The rnamd developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package dcd reads and writes CHARMM/NAMD/AMBER binary DCD
//trajectories. Only little-endian, CHARMM-flavored files without fixed
//atoms are supported, which covers what the MD engines driven by rnamd
//produce. Files compressed with zstd (.zst) or gzip (.gz) are
//decompressed transparently on reading.
package dcd

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	mol "github.com/molsimtools/rnamd"
	"github.com/molsimtools/rnamd/vec"
)

const maxTitle int32 = 80

//DCDObj reads a DCD trajectory file. It implements mol.Traj.
type DCDObj struct {
	natoms     int32
	readLast   bool //have we read the last frame?
	readable   bool
	filename   string
	extrablock bool //unit-cell block present?
	fourdim    bool
	fixed      int32
	src        io.ReadCloser //decompressed stream
	f          *os.File
	fields     [][]float32
}

//New opens the DCD file and parses its header, returning an object
//ready to deliver frames.
func New(filename string) (*DCDObj, error) {
	D := new(DCDObj)
	D.filename = filename
	if err := D.initRead(filename); err != nil {
		return nil, errDecorate(err, "New")
	}
	return D, nil
}

//prepSource opens filename and, depending on its extension, wraps it
//in a zstd or gzip decompressor.
func (D *DCDObj) prepSource(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, Error{err.Error(), filename, []string{"os.Open", "prepSource"}, true}
	}
	D.f = f
	switch {
	case strings.HasSuffix(filename, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, Error{err.Error(), filename, []string{"zstd.NewReader", "prepSource"}, true}
		}
		return zr.IOReadCloser(), nil
	case strings.HasSuffix(filename, ".gz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, Error{err.Error(), filename, []string{"gzip.NewReader", "prepSource"}, true}
		}
		return gr, nil
	}
	return f, nil
}

func (D *DCDObj) initRead(filename string) error {
	var err error
	D.src, err = D.prepSource(filename)
	if err != nil {
		return err
	}
	var check int32
	if err := binary.Read(D.src, binary.LittleEndian, &check); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	//the first record of a DCD is always an 84.
	if check != 84 {
		return Error{WrongFormat + ": header record size is not 84, wrong endianness?", filename, []string{"initRead"}, true}
	}
	magic := make([]byte, 4)
	if err := binary.Read(D.src, binary.LittleEndian, magic); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	if string(magic) != "CORD" {
		return Error{WrongFormat + ": no CORD magic", filename, []string{"initRead"}, true}
	}
	//one 80-byte chunk holds the frame counts and the CHARMM flags.
	buf := make([]byte, 80)
	if err := binary.Read(D.src, binary.LittleEndian, buf); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	//X-plor sets the last int to zero, CHARMM to its version number.
	if err := binary.Read(bytes.NewBuffer(buf[76:]), binary.LittleEndian, &check); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	if check == 0 {
		return Error{"X-plor DCD not supported", filename, []string{"initRead"}, true}
	}
	if err := binary.Read(bytes.NewBuffer(buf[40:]), binary.LittleEndian, &check); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	D.extrablock = check != 0
	if err := binary.Read(bytes.NewBuffer(buf[44:]), binary.LittleEndian, &check); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	D.fourdim = check == 1
	if err := binary.Read(bytes.NewBuffer(buf[32:]), binary.LittleEndian, &D.fixed); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	if err := binary.Read(D.src, binary.LittleEndian, &check); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	if check != 84 {
		return Error{WrongFormat, filename, []string{"initRead"}, true}
	}
	//title record
	var titleRec int32
	if err := binary.Read(D.src, binary.LittleEndian, &titleRec); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	var ntitle int32
	if err := binary.Read(D.src, binary.LittleEndian, &ntitle); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	title := make([]byte, maxTitle*ntitle)
	if err := binary.Read(D.src, binary.LittleEndian, title); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	if err := binary.Read(D.src, binary.LittleEndian, &titleRec); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	//a 4 must precede the atom count
	if err := binary.Read(D.src, binary.LittleEndian, &check); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	if check != 4 {
		return Error{WrongFormat, filename, []string{"initRead"}, true}
	}
	if err := binary.Read(D.src, binary.LittleEndian, &D.natoms); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	if err := binary.Read(D.src, binary.LittleEndian, &check); err != nil {
		return Error{err.Error(), filename, []string{"binary.Read", "initRead"}, true}
	}
	if check != 4 {
		return Error{WrongFormat, filename, []string{"initRead"}, true}
	}
	if D.fixed != 0 {
		return Error{"Fixed atoms not supported", filename, []string{"initRead"}, true}
	}
	D.readable = true
	return nil
}

//Readable returns true if the object is ready to be read from. It
//doesn't guarantee that there is something left to read.
func (D *DCDObj) Readable() bool {
	return D.readable
}

//Len returns the number of atoms per frame.
func (D *DCDObj) Len() int {
	return int(D.natoms)
}

//Close closes the underlying file.
func (D *DCDObj) Close() {
	if D.src != nil {
		D.src.Close()
	}
	if D.f != nil {
		D.f.Close()
	}
	D.readable = false
}

//Next reads the next frame into output, which must have one row per
//atom, or discards the frame if output is nil. If box is given and the
//frame carries a unit cell, the box lengths are written to box[0].
//After the last frame a mol.LastFrameError is returned.
func (D *DCDObj) Next(output *vec.Matrix, box ...[]float64) error {
	if !D.readable {
		return Error{TrajUnIni, D.filename, []string{"Next"}, true}
	}
	if D.fields == nil {
		D.fields = make([][]float32, 3)
		for i := range D.fields {
			D.fields[i] = make([]float32, int(D.natoms))
		}
	}
	var cell []float64
	if len(box) > 0 && box[0] != nil {
		cell = box[0]
	}
	if err := D.nextRaw(D.fields, cell); err != nil {
		return errDecorate(err, "Next")
	}
	if output == nil {
		return nil
	}
	if output.NVecs() != int(D.natoms) {
		return Error{NotEnoughSpace, D.filename, []string{"Next"}, true}
	}
	for i := 0; i < int(D.natoms); i++ {
		output.Set(i, 0, float64(D.fields[0][i]))
		output.Set(i, 1, float64(D.fields[1][i]))
		output.Set(i, 2, float64(D.fields[2][i]))
	}
	return nil
}

//nextRaw reads one frame into blocks, parsing the unit-cell block into
//cell if given.
func (D *DCDObj) nextRaw(blocks [][]float32, cell []float64) error {
	if D.readLast {
		D.readable = false
		return newlastFrameError(D.filename, "nextRaw")
	}
	var blocksize int32
	//The unit-cell block precedes the coordinates, but is not always
	//present in every frame, so the block size disambiguates: an
	//X-coordinate block is exactly 4*natoms bytes.
	if D.extrablock {
		if err := binary.Read(D.src, binary.LittleEndian, &blocksize); err != nil {
			return D.eofOr(err, "nextRaw")
		}
		if blocksize != D.natoms*4 {
			raw, err := D.readByteBlock(blocksize)
			if err != nil {
				return err
			}
			if blocksize == 48 && cell != nil {
				//CHARMM cell: a, cos(gamma), b, cos(beta), cos(alpha), c
				uc := make([]float64, 6)
				if err := binary.Read(bytes.NewBuffer(raw), binary.LittleEndian, uc); err != nil {
					return Error{err.Error(), D.filename, []string{"binary.Read", "nextRaw"}, true}
				}
				if len(cell) >= 3 {
					cell[0], cell[1], cell[2] = uc[0], uc[2], uc[5]
				}
			}
			blocksize = 0
		}
	}
	if blocksize == 0 {
		if err := binary.Read(D.src, binary.LittleEndian, &blocksize); err != nil {
			return D.eofOr(err, "nextRaw")
		}
	}
	if err := D.readFloat32Block(blocksize, blocks[0]); err != nil {
		return D.eofOr(err, "nextRaw")
	}
	for crd := 1; crd <= 2; crd++ {
		if err := binary.Read(D.src, binary.LittleEndian, &blocksize); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Read", "nextRaw"}, true}
		}
		if err := D.readFloat32Block(blocksize, blocks[crd]); err != nil {
			return errDecorate(err, "nextRaw")
		}
	}
	//skip the 4D block if present
	if D.fourdim {
		if err := binary.Read(D.src, binary.LittleEndian, &blocksize); err != nil {
			if err == io.EOF {
				D.readLast = true
				return nil
			}
			return Error{err.Error(), D.filename, []string{"binary.Read", "nextRaw"}, true}
		}
		if _, err := D.readByteBlock(blocksize); err != nil {
			return err
		}
	}
	return nil
}

//eofOr turns an EOF into the normal end-of-trajectory signal, and
//anything else into a critical error.
func (D *DCDObj) eofOr(err error, caller string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		D.readable = false
		return newlastFrameError(D.filename, caller)
	}
	return Error{err.Error(), D.filename, []string{caller}, true}
}

//readFloat32Block reads a block of float32 of the given size, checking
//the trailing size record.
func (D *DCDObj) readFloat32Block(blocksize int32, block []float32) error {
	if int32(len(block))*4 != blocksize {
		return Error{NotEnoughSpace, D.filename, []string{"readFloat32Block"}, true}
	}
	if err := binary.Read(D.src, binary.LittleEndian, block); err != nil {
		return err
	}
	var check int32
	if err := binary.Read(D.src, binary.LittleEndian, &check); err != nil {
		return err
	}
	if check != blocksize {
		return Error{WrongFormat, D.filename, []string{"readFloat32Block"}, true}
	}
	return nil
}

//readByteBlock reads a block of raw bytes of the given size, checking
//the trailing size record.
func (D *DCDObj) readByteBlock(blocksize int32) ([]byte, error) {
	block := make([]byte, blocksize)
	if err := binary.Read(D.src, binary.LittleEndian, block); err != nil {
		return nil, Error{err.Error(), D.filename, []string{"binary.Read", "readByteBlock"}, true}
	}
	var check int32
	if err := binary.Read(D.src, binary.LittleEndian, &check); err != nil {
		return nil, Error{err.Error(), D.filename, []string{"binary.Read", "readByteBlock"}, true}
	}
	if check != blocksize {
		return nil, Error{WrongFormat, D.filename, []string{"readByteBlock"}, true}
	}
	return block, nil
}

//Errors

//Error is the error type for DCD trajectories, implementing
//mol.TrajError.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return "dcd file " + err.filename + " error: " + err.message
}

//Decorate adds new information to the error and returns the trail.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file associated to the error.
func (err Error) FileName() string { return err.filename }

//Format returns the format associated to the error (always "dcd").
func (err Error) Format() string { return "dcd" }

//Critical returns whether the error is critical.
func (err Error) Critical() bool { return err.critical }

//Common error messages.
const (
	TrajUnIni      = "Trajectory not initialized"
	WrongFormat    = "Wrong format in the DCD file"
	NotEnoughSpace = "Not enough space in passed blocks"
)

//errDecorate asserts that err is a mol.Error and decorates it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(mol.Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}

//lastFrameError implements mol.LastFrameError.
type lastFrameError struct {
	deco     []string
	fileName string
}

func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "dcd" }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) lastFrameError {
	return lastFrameError{fileName: filename, deco: []string{caller}}
}
