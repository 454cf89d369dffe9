// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package arraymap

import "errors"

// ErrDuplicateKey is returned when construction, Add, or Update sees
// a key already present in the index. Callers test for it with
// errors.Is; the returned error wraps it with the positions involved
// (construction) or the offending key and its existing position (Add).
var ErrDuplicateKey = errors.New("arraymap: key already present")

// ErrKeyMissing is returned by Index and GetAll when a key is absent.
var ErrKeyMissing = errors.New("arraymap: key not found")

// ErrTypeMismatch is returned for arguments the index cannot work
// with at all: unsupported key types, writeable or Object-kind
// buffers at construction, values unrepresentable in a buffer-mode
// index's element kind, and non-sized bulk lookup arguments.
var ErrTypeMismatch = errors.New("arraymap: incompatible type")
