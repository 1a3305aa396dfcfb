// Command lockbox is a local password vault: one encrypted file, unlocked
// with a master passphrase. All cryptography and persistence lives in the
// internal packages; this layer only parses arguments, prompts, and prints.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
