// Package model holds the BoardGameGeek domain objects returned by the client.
//
// Values are plain data: they carry no references to the client or cache and
// are safe to share between goroutines once returned.
package model
