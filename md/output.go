/*
 * output.go, part of rnamd.
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

package md

import (
	"os"
	"strings"
)

//searchBackwards searches a file from the end for a string, returning
//the last line that contains it, or an empty string if absent or on
//any reading trouble. The engines print their termination status near
//the end of outputs that can be very long, hence the direction.
func searchBackwards(str, filename string) string {
	var ini, end int64
	buf := make([]byte, 1)
	f, err := os.Open(filename)
	if err != nil {
		return ""
	}
	defer f.Close()
	var i int64 = 1
	for ; ; i++ {
		if _, err := f.Seek(-1*i, 2); err != nil {
			return "" //reached the beginning without finding str
		}
		if _, err := f.Read(buf); err != nil {
			return ""
		}
		if buf[0] != byte('\n') {
			continue
		}
		if end == 0 {
			end = i
			continue
		}
		ini = i
		if _, err := f.Seek(-1*ini, 2); err != nil {
			return ""
		}
		line := make([]byte, ini-end)
		if _, err := f.Read(line); err != nil {
			return ""
		}
		if strings.Contains(string(line), str) {
			return string(line)
		}
		end = ini
	}
}

//tailFile returns up to the last n bytes of a file, for inclusion in
//error reports. An empty string is returned on any trouble.
func tailFile(filename string, n int64) string {
	f, err := os.Open(filename)
	if err != nil {
		return ""
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return ""
	}
	size := st.Size()
	if size < n {
		n = size
	}
	if _, err := f.Seek(-n, 2); err != nil {
		return ""
	}
	buf := make([]byte, n)
	if _, err := f.Read(buf); err != nil {
		return ""
	}
	return string(buf)
}
