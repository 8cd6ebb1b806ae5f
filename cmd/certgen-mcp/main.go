// Command certgen-mcp is an MCP (Model Context Protocol) server that
// exposes certificate generation to AI assistants.
//
// # Installation
//
//	go install github.com/lesley-gao/automated-certificate-generator/cmd/certgen-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "certgen": {
//	      "command": "certgen-mcp"
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - create_certificate: Render one recipient's certificate as a PDF
//   - generate_batch: Render all recipients into a zip archive or one combined PDF
//   - preview_layout: Show the resolved field layout for a recipient
//
// # Available Resources
//
//   - certificate://schema : Template format documentation
package main

import (
	"fmt"
	"os"

	"github.com/lesley-gao/automated-certificate-generator/mcp"
)

func main() {
	server := mcp.NewServer()

	mcp.RegisterDefaultTools(server)
	mcp.RegisterDefaultResources(server)

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "certgen-mcp: %v\n", err)
		os.Exit(1)
	}
}
