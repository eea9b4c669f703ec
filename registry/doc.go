// Package registry maps script type names to builder factories.
//
// A [Registry] holds every known type under each of its aliases and an
// optional default. [Registry.Script] picks the type of a template from
// its interpreter directive, a first line such as
//
//	#!/usr/bin/env python {"args": "argv"}
//
// whose trailing JSON object adjusts the builder options of that one
// script. [Registry.Tag] binds a single type, so the directive only
// contributes options.
//
// Types can also be described in YAML and registered with
// [Registry.Load]; see [EntryFile].
package registry
