// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"fmt"
	"strings"
)

// Profile selects when assets are resolved.
type Profile int

const (
	// Dev resolves every asset on every request.
	Dev Profile = iota
	// Release resolves every asset once, at generation time, and embeds
	// the bytes.
	Release
)

func (p Profile) String() string {
	switch p {
	case Dev:
		return "dev"
	case Release:
		return "release"
	}
	return fmt.Sprintf("Profile(%d)", int(p))
}

// ParseProfile parses "dev" (or "debug") and "release".
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "debug":
		return Dev, nil
	case "release":
		return Release, nil
	}
	return 0, fmt.Errorf("unknown profile %q (want dev or release)", s)
}
