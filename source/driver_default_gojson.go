// Package source installs the go-json driver as the process-wide default
// when imported for side effects.
package source

import (
	restfb "github.com/restfb/restfb-sub000"
	drvgojson "github.com/restfb/restfb-sub000/source/gojson"
)

// init in a separate package to avoid import cycle in root. This sets go-json as default driver.
func init() { restfb.SetJSONDriver(drvgojson.Driver()) }
