package main

import "github.com/chadboyda/longform-video-generator/internal/cli"

func main() {
	cli.Main()
}
