// Package external is the authoring surface for xhost packages.
//
// A package is any value implementing Package: it lists the operations it
// exposes (an optional init hook, an optional dispose hook, commands and
// functions) and is produced by a Factory registered under its identifier:
//
//	func init() {
//		external.Register("com.example.Greeter", func() (external.Package, error) {
//			return &Greeter{}, nil
//		})
//	}
//
//	func (g *Greeter) Operations() []external.Operation {
//		return []external.Operation{
//			external.Init(g.Init),
//			external.Function(g.EtHello),
//			external.Command(g.Reset).As("etReset"),
//		}
//	}
//
// The loader validates every operation signature before anything is
// registered, so a package with a single bad signature never becomes
// callable. Engine is the callback interface a package receives in its init
// hook to talk back to the host.
package external
