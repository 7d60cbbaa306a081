package main

import polylint "github.com/polylint/polylint/cmd/polylint"

func main() { polylint.Execute() }
