package turing

// Version is the module release reported by the CLI.
const Version = "0.3.0"
