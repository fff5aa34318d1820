package loader

import (
	"fmt"

	"github.com/GriffinCanCode/xhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/xhost/internal/xlib"
)

// CallCommand invokes the command registered under name. Void commands
// yield "".
func (l *Loader) CallCommand(name string, args []string) (string, error) {
	timer := monitoring.NewTimer(l.metrics, "command")

	cmd, ok := l.snapshot.Command(name)
	if !ok {
		err := fmt.Errorf("%w: '%s'", xlib.ErrUnknownCommand, name)
		timer.Stop(err, xlib.ErrUnknownCommand)
		return "", err
	}

	out, err := cmd.Invoke(args)
	timer.Stop(err)
	return out, err
}

// CallFunction invokes the function registered under name.
func (l *Loader) CallFunction(name string, args []string) (string, error) {
	timer := monitoring.NewTimer(l.metrics, "function")

	fn, ok := l.snapshot.Function(name)
	if !ok {
		err := fmt.Errorf("%w: '%s'", xlib.ErrUnknownFunction, name)
		timer.Stop(err, xlib.ErrUnknownFunction)
		return "", err
	}

	out, err := fn.Invoke(args)
	timer.Stop(err)
	return out, err
}
