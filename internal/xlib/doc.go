/*
Package xlib holds the core model of the external library host.

A Bundle is a zip archive on disk (or behind a URL) carrying a descriptor
that names the packages it provides. Each Package contributes commands and
functions: operations a host calls by name with a list of string arguments
and that answer with a string. Commands may be void, in which case callers
always see the empty string.

Subpackages implement the pipeline:

  - descriptor: reads META-INF/xlibrary.xml from a bundle
  - source:     resolves package identifiers inside one bundle
  - script:     runs JavaScript packages shipped in a bundle
  - introspect: validates a package's operations and runs its init hook
  - registry:   projects the loaded bundles into name-indexed lookups
  - loader:     load, unload and dispatch, the host-facing surface
  - fetch:      downloads remote bundles

Errors are sentinel values matched with errors.Is; LoadError and
InvocationError carry the context of a failed load or call.
*/
package xlib
