// Package adapter defines the contract the sync engine uses to read and write
// a single AI-assistant tool's configuration, and provides file-based
// implementations for the built-in systems.
//
// Each built-in system is described by a Layout: where each artifact type
// lives on disk, which types it supports natively or via a transform, and how
// its MCP server configuration file is encoded. FileAdapter interprets a
// Layout; systems with an MCP configuration file additionally satisfy
// MCPServerAdapter.
package adapter
