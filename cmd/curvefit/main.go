package main

import (
	"context"
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/katalvlaran/curvefit/cli"
)

func main() {
	cmd := cli.NewCommand(os.Stdout, os.Stderr)
	err := cmd.ExecuteContext(context.Background())
	klog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
