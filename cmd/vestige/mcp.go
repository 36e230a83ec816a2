package main

import (
	"context"
	"fmt"

	"github.com/panbanda/vestige/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the
unused-binding check as tools that LLMs can invoke. This enables AI
assistants like Claude to find dead bindings before refactoring.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "vestige": {
        "command": "vestige",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - check_unused   Find unused variables, parameters, imports, and types
  - scan_files     List the files a check would analyze`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "manifest",
				Usage: "Print the MCP registry manifest as JSON and exit",
			},
		},
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	if c.Bool("manifest") {
		manifest, err := mcpserver.GenerateManifest(version)
		if err != nil {
			return err
		}
		fmt.Println(string(manifest))
		return nil
	}

	server := mcpserver.NewServer(version)
	return server.Run(context.Background())
}
