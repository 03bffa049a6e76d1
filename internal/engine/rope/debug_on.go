//go:build ropedebug

package rope

const validateByDefault = true
