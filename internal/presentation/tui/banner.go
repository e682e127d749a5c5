package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for the interactive shell.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Amber-to-red gradient, matching the escalation theme
	s1 := termenv.String("  _____     _                  ").Foreground(p.Color("#fbbf24"))
	s2 := termenv.String(" |_   _| __(_) __ _  __ _  ___ ").Foreground(p.Color("#f59e0b"))
	s3 := termenv.String("   | || '__| |/ _` |/ _` |/ _ \\").Foreground(p.Color("#f97316"))
	s4 := termenv.String("   | || |  | | (_| | (_| |  __/").Foreground(p.Color("#ef4444"))
	s5 := termenv.String("   |_||_|  |_|\\__,_|\\__, |\\___|").Foreground(p.Color("#dc2626"))
	s6 := termenv.String("                    |___/      ").Foreground(p.Color("#b91c1c"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println()
}
