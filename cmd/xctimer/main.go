package main

import (
	"context"

	"github.com/mcoot/xctimer/internal/cli"
)

func main() {
	cli.Execute(context.Background())
}
