/*
Package loader is the host-facing surface of xhost: it loads and unloads
libraries, keeps the registry snapshot current and dispatches commands and
functions by name.

A load is all or nothing. The library is opened, its descriptor read and
every declared package resolved, validated and initialised in order; if any
step fails, packages already initialised in that attempt are disposed, the
code source is released and a single *xlib.LoadError describes the first
failure. Only a fully successful load is appended to the library list, after
which the registry snapshot is rebuilt from scratch.

Name collisions between libraries resolve in favour of the library loaded
last. Unloading it makes the earlier registration visible again.

A Loader is not safe for concurrent use. Hosts that serve several callers
serialise access themselves (the HTTP server does so with one mutex).
*/
package loader
