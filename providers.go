package main

import (
	// Import all provider modules to trigger their init() functions
	_ "github.com/docdex/docdex/pkg/providers/dash"
)
