/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: translators.go
Description: Lists the table translators and the targets each one supports.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/akaylee-lstar/pkg/translator"
	"github.com/spf13/cobra"
)

// ListTranslators lists all available translators
func ListTranslators(cmd *cobra.Command, args []string) {
	fmt.Println("🧬 Akaylee L* - Available Translators")
	fmt.Println("=====================================")
	fmt.Println()

	for i, info := range translator.Available() {
		fmt.Printf("%d. %s\n", i+1, info.Name)
		fmt.Printf("   Description: %s\n", info.Description)
		fmt.Printf("   Total table required: %v\n", info.Total)
		fmt.Println()
	}

	fmt.Println("✨ Use --translator to choose one; partial also takes --hole-output and --hole-policy")
}
