// Copyright (C) 2024  wwhai
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, see <https://www.gnu.org/licenses/>.

package uniden

import "strings"

// Transporter carries one command to the scanner and returns its answer.
// Implementations fail with a *CommandError when the answer is an error
// token.
type Transporter interface {
	Send(command string) (string, error)
}

// errorTokens are the answers the scanner uses to reject a command.
var errorTokens = map[string]struct{}{
	"NG":   {},
	"ORER": {},
	"FER":  {},
	"ERR":  {},
	"":     {},
}

// checkResponse inspects the status field of a response. A response with
// exactly one comma carries its status in the second field ("SIN,NG");
// a bare answer is judged as a whole ("ERR", ""). Longer answers fail on a
// non-empty error token in the last field; an empty last field there is a
// reserved slot.
func checkResponse(command, res string) error {
	status := res
	switch n := strings.Count(res, ","); {
	case n == 1:
		_, status, _ = strings.Cut(res, ",")
	case n > 1:
		status = res[strings.LastIndex(res, ",")+1:]
		if status == "" {
			return nil
		}
	}
	if _, bad := errorTokens[status]; bad {
		return &CommandError{Command: command, Token: status}
	}
	return nil
}
