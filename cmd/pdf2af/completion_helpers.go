package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagsOnlyCompletion offers every visible flag, local and inherited, even before a dash is typed.
// It serves commands whose input is entirely flag-driven.
func flagsOnlyCompletion(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	flags := make([]string, 0, 16)

	add := func(f *pflag.Flag) {
		if f.Hidden || f.Changed {
			return
		}
		if f.Shorthand != "" {
			flags = append(flags, "-"+f.Shorthand)
		}
		flags = append(flags, "--"+f.Name)
	}

	cmd.NonInheritedFlags().VisitAll(add)
	cmd.InheritedFlags().VisitAll(add)

	return flags, cobra.ShellCompDirectiveNoFileComp
}

// pdfCompletion limits positional completion to PDF files and directories.
func pdfCompletion(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"pdf", "PDF"}, cobra.ShellCompDirectiveFilterFileExt
}
