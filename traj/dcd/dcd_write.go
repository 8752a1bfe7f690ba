/*
 * dcd_write.go, part of rnamd.
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

package dcd

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/molsimtools/rnamd/vec"
)

//DCDWObj writes a little-endian, CHARMM-flavored DCD trajectory
//without a unit-cell block. The frame count at the start of the file
//is updated after every frame, so the file is valid at all times.
type DCDWObj struct {
	natoms   int32
	writable bool
	filename string
	frames   int32
	f        *os.File
	fields   [][]float32
	endian   binary.ByteOrder
}

//NewWriter creates filename and writes a DCD header for natoms atoms,
//returning an object frames can be written to.
func NewWriter(filename string, natoms int) (*DCDWObj, error) {
	D := new(DCDWObj)
	D.natoms = int32(natoms)
	D.filename = filename
	if err := D.initWrite(filename); err != nil {
		return nil, errDecorate(err, "NewWriter")
	}
	return D, nil
}

//Close flushes and closes the trajectory.
func (D *DCDWObj) Close() {
	if !D.writable {
		return
	}
	D.f.Close()
	D.writable = false
}

func (D *DCDWObj) initWrite(name string) error {
	wrapbin := func(err error) error {
		return Error{err.Error(), D.filename, []string{"binary.Write", "initWrite"}, true}
	}
	if D.natoms == 0 {
		return Error{"the number of atoms is set to zero", D.filename, []string{"initWrite"}, true}
	}
	D.endian = binary.LittleEndian
	var err error
	D.f, err = os.Create(name)
	if err != nil {
		return Error{err.Error(), D.filename, []string{"os.Create", "initWrite"}, true}
	}
	if err := binary.Write(D.f, D.endian, int32(84)); err != nil {
		return wrapbin(err)
	}
	if err := binary.Write(D.f, D.endian, []byte("CORD")); err != nil {
		return wrapbin(err)
	}
	//The 80-byte flag chunk: frames written so far (updated after
	//every frame), start step, save interval, 6 zeros, the timestep,
	//no unit cell, 8 zeros, and a CHARMM version number.
	ints := []int32{0, 0, 1, 0, 0, 0, 0, 0, 0}
	for _, v := range ints {
		if err := binary.Write(D.f, D.endian, v); err != nil {
			return wrapbin(err)
		}
	}
	if err := binary.Write(D.f, D.endian, float32(1)); err != nil {
		return wrapbin(err)
	}
	for i := 0; i < 9; i++ { //unit-cell flag plus 8 zeros
		if err := binary.Write(D.f, D.endian, int32(0)); err != nil {
			return wrapbin(err)
		}
	}
	if err := binary.Write(D.f, D.endian, int32(24)); err != nil {
		return wrapbin(err)
	}
	if err := binary.Write(D.f, D.endian, int32(84)); err != nil {
		return wrapbin(err)
	}
	//title record: 2 dummy title lines
	if err := binary.Write(D.f, D.endian, int32(164)); err != nil {
		return wrapbin(err)
	}
	if err := binary.Write(D.f, D.endian, int32(2)); err != nil {
		return wrapbin(err)
	}
	title := make([]byte, 2*maxTitle)
	copy(title, []byte("Written by rnamd"))
	title[len(title)-1] = byte('\000')
	if err := binary.Write(D.f, D.endian, title); err != nil {
		return wrapbin(err)
	}
	if err := binary.Write(D.f, D.endian, int32(164)); err != nil {
		return wrapbin(err)
	}
	if err := binary.Write(D.f, D.endian, int32(4)); err != nil {
		return wrapbin(err)
	}
	if err := binary.Write(D.f, D.endian, D.natoms); err != nil {
		return wrapbin(err)
	}
	if err := binary.Write(D.f, D.endian, int32(4)); err != nil {
		return wrapbin(err)
	}
	D.writable = true
	return nil
}

//WNext writes the next frame to the trajectory. The box argument is
//accepted for interface compatibility but not written.
func (D *DCDWObj) WNext(towrite *vec.Matrix, box ...[]float64) error {
	if !D.writable {
		return Error{TrajUnIni, D.filename, []string{"WNext"}, true}
	}
	if towrite == nil {
		return Error{"got nil coordinates", D.filename, []string{"WNext"}, true}
	}
	if int32(towrite.NVecs()) != D.natoms {
		return Error{"coordinates don't match the trajectory size", D.filename, []string{"WNext"}, true}
	}
	if D.fields == nil {
		D.fields = make([][]float32, 3)
		for i := range D.fields {
			D.fields[i] = make([]float32, int(D.natoms))
		}
	}
	for i := 0; i < int(D.natoms); i++ {
		D.fields[0][i] = float32(towrite.At(i, 0))
		D.fields[1][i] = float32(towrite.At(i, 1))
		D.fields[2][i] = float32(towrite.At(i, 2))
	}
	if err := D.wnextRaw(D.fields); err != nil {
		return errDecorate(err, "WNext")
	}
	D.frames++
	return D.updateFrames()
}

func (D *DCDWObj) wnextRaw(blocks [][]float32) error {
	blocksize := int32(len(blocks[0])) * 4 //size records are in bytes
	for _, block := range blocks {
		if err := binary.Write(D.f, D.endian, blocksize); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "wnextRaw"}, true}
		}
		if err := binary.Write(D.f, D.endian, block); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "wnextRaw"}, true}
		}
		if err := binary.Write(D.f, D.endian, blocksize); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "wnextRaw"}, true}
		}
	}
	return nil
}

//updateFrames rewrites the frame count at the start of the file, as
//the format requires it there.
func (D *DCDWObj) updateFrames() error {
	current, err := D.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return Error{err.Error(), D.filename, []string{"Seek", "updateFrames"}, true}
	}
	if _, err := D.f.Seek(8, io.SeekStart); err != nil { //past the 84 and "CORD"
		return Error{err.Error(), D.filename, []string{"Seek", "updateFrames"}, true}
	}
	if err := binary.Write(D.f, D.endian, D.frames); err != nil {
		return Error{err.Error(), D.filename, []string{"binary.Write", "updateFrames"}, true}
	}
	if _, err := D.f.Seek(current, io.SeekStart); err != nil {
		return Error{err.Error(), D.filename, []string{"Seek", "updateFrames"}, true}
	}
	return nil
}
