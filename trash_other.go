//go:build !unix

package main

// checkWritable is left to the Recycle Bin call on this platform
func checkWritable(dir string) error {
	return nil
}
