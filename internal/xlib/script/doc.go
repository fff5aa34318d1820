// Package script runs JavaScript packages shipped inside a bundle.
//
// Each bundle gets one Runtime (a goja VM) that all of its script packages
// share and that is discarded when the bundle is unloaded. A package file is
// evaluated as the body of a function receiving an xpackage builder:
//
//	xpackage.init(function (engine) {
//		engine.setGlobal("gGreeting", "Hello");
//	});
//
//	xpackage.function(function etHello() {
//		return "Hello, world";
//	});
//
//	xpackage.command(function (args) {
//		engine.setGlobal(args[0], args[1]);
//	}, { alias: "etSet", params: "string[]", returns: "void" });
//
// Options name the operation (alias, else the JS function name) and declare
// its shape: params is "none" or "string[]" (default from the function's
// declared parameter count), returns is "void" or "string" (default "void"
// for commands and "string" for functions). Any other type name produces an
// operation the loader rejects as a signature violation.
package script
