//go:build !unix

package bootstrap

func osRelease() string {
	return "unknown"
}
