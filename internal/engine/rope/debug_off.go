//go:build !ropedebug

package rope

const validateByDefault = false
