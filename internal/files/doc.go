// Package files provides file system discovery and output file management.
//
// Discovery lists source extracts in a directory: regular, non-hidden files
// matching a glob, always sorted by name so repeated merges see the same order.
//
// Manager writes run artifacts into the output directory atomically and
// computes BLAKE2b-256 digests used by the run manifest.
//
// Example usage:
//
//	discovery := files.NewDiscovery("")
//	sources, err := discovery.FindSourceFiles("data/Sales_Data", "*")
//
//	manager := files.NewManager(paths, logger)
//	digest, size, err := manager.Digest("all_data.csv")
package files
