// Package main provides the born-norm CLI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/born-ml/born-norm/internal/backend/webgpu"
	"github.com/born-ml/born-norm/internal/config"
	"github.com/born-ml/born-norm/internal/functional"
	"github.com/born-ml/born-norm/internal/serialization"
	"github.com/born-ml/born-norm/internal/shim"
	"github.com/born-ml/born-norm/internal/tensor"
)

const version = "v0.1.0-dev"

// Tensor names looked up in the input file.
var inputRoles = []string{"input", "weight", "bias", "running_mean", "running_var", "indices"}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "born-norm %s\n", version)
		return nil
	case "ops":
		for _, op := range shim.NewRegistry().SupportedOps() {
			fmt.Fprintln(stdout, op)
		}
		return nil
	case "run":
		return runOp(args[1:], stdout, stderr)
	default:
		usage(stdout)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "born-norm %s - tensor normalization operations\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  ops        List supported operations")
	fmt.Fprintln(w, "  run        Run one operation on a SafeTensors file")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  born-norm run -op NAME -in IN.safetensors -out OUT.safetensors [-attr key=value ...] [-config cfg.json]")
}

// attrFlags collects repeated -attr values.
type attrFlags []shim.Attribute

func (a *attrFlags) String() string {
	names := make([]string, len(*a))
	for i, attr := range *a {
		names[i] = attr.Name
	}
	return strings.Join(names, ",")
}

func (a *attrFlags) Set(s string) error {
	attr, err := shim.ParseAttribute(s)
	if err != nil {
		return err
	}
	*a = append(*a, attr)
	return nil
}

func runOp(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	op := fs.String("op", "", "operation name (see 'born-norm ops')")
	in := fs.String("in", "", "input SafeTensors file")
	out := fs.String("out", "", "output SafeTensors file")
	cfgPath := fs.String("config", "", "JSON config file")
	var attrs attrFlags
	fs.Var(&attrs, "attr", "operation attribute key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *op == "" || *in == "" || *out == "" {
		return errors.New("run requires -op, -in and -out")
	}

	cfg := config.DefaultConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	engine, release := newEngine(cfg, logger)
	defer release()

	tensors, _, err := serialization.ReadSafeTensors(*in)
	if err != nil {
		return err
	}

	s := shim.NewSession(shim.WithEngine(engine), shim.WithLogger(logger))
	defer s.Close()

	call := &shim.Call{Op: *op, Inputs: make(map[string]shim.Handle), Attributes: attrs}
	for _, role := range inputRoles {
		if t, ok := tensors[role]; ok {
			call.Inputs[role] = s.Import(t)
		}
	}

	h, err := shim.NewRegistry().Execute(s, call)
	if err != nil {
		return err
	}
	result, err := s.Tensor(h)
	if err != nil {
		return err
	}

	outputs := map[string]*tensor.RawTensor{"output": result}
	for _, role := range []string{"running_mean", "running_var"} {
		if rh, ok := call.Inputs[role]; ok {
			t, err := s.Tensor(rh)
			if err != nil {
				return err
			}
			outputs[role] = t
		}
	}

	if err := serialization.WriteSafeTensors(*out, outputs, map[string]string{"born.op": *op}); err != nil {
		return err
	}
	logger.Info("operation complete", "op", *op, "shape", result.Shape(), "out", *out)
	fmt.Fprintf(stdout, "%s: wrote %v to %s\n", *op, result.Shape(), *out)
	return nil
}

// newEngine builds the compute engine from cfg. A WebGPU accelerator that
// cannot be created falls back to the CPU.
func newEngine(cfg *config.Config, logger *slog.Logger) (*functional.Engine, func()) {
	opts := []functional.Option{functional.WithParallel(cfg.ParallelSettings())}
	release := func() {}

	if cfg.Accelerator == config.AcceleratorWebGPU {
		backend, err := webgpu.New()
		if err != nil {
			logger.Warn("webgpu unavailable, using cpu", "err", err)
		} else {
			logger.Debug("using accelerator", "name", backend.Name())
			opts = append(opts, functional.WithAccelerator(backend))
			release = backend.Release
		}
	}
	return functional.NewEngine(opts...), release
}
