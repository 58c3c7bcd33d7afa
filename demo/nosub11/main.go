// Author: KleaSCM
// Email: KleaSCM@gmail.com
// File: main.go
// Description: Demo program target for process learning. Reads one query per run from stdin and
// exits 0 when the word has no two consecutive 1s, 1 otherwise.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Accepts is the language under test
func Accepts(word string) bool {
	return !strings.Contains(word, "11")
}

func main() {
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintln(os.Stderr, "Failed to read query:", err)
		os.Exit(2)
	}
	if Accepts(strings.TrimRight(line, "\r\n")) {
		os.Exit(0)
	}
	os.Exit(1)
}
