/*
 * errors.go, part of rnamd.
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

package mol

//Error is the interface all rnamd packages implement for their errors.
//Decorate adds information to the error as it is passed up the call
//stack, without wrapping it in another type, and returns the current
//decoration trail. Passing an empty string just returns the trail.
type Error interface {
	Error() string
	Decorate(string) []string
}

//TrajError is the interface for errors produced while reading
//trajectories.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

//LastFrameError is implemented by the harmless error that signals a
//normal end of trajectory, so it can be filtered in a type switch.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, it only marks the type
}

//CError is the concrete error type of the mol package.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

//Decorate adds new information to the error and returns the trail.
func (err CError) Decorate(deco string) []string {
	//deco is a slice, so appending to it in a value receiver still
	//reaches the backing array seen by the caller.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//errDecorate asserts that err implements Error, decorates it with the
//caller name, and returns it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}

//Common error messages.
const (
	ErrNilData        = "mol: nil data given"
	ErrMismatchedData = "mol: mismatched data lengths"
	ErrAtomOutOfRange = "mol: atom index out of range"
)

//lastFrameError implements LastFrameError.
type lastFrameError struct {
	deco     []string
	fileName string
}

func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "mol" }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newLastFrameError(filename, caller string) lastFrameError {
	return lastFrameError{fileName: filename, deco: []string{caller}}
}
