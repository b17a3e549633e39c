package mxprobe_test

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/optimode/mxprobe"
)

func ExampleNew() {
	p, err := mxprobe.New(mxprobe.DefaultOptions("verify@myapp.com", "myapp.com"))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(p.Options().MaxMXHosts, p.Options().Port)
	// Output: 3 25
}

func ExampleProber_Verify() {
	p, _ := mxprobe.New(mxprobe.DefaultOptions("verify@myapp.com", "myapp.com"))

	// Rejected by the syntax gate before any network activity.
	result := p.Verify(context.Background(), "not-an-address")
	fmt.Println(result.Status, result.Error)
	// Output: invalid_syntax invalid email syntax
}

func ExampleResult() {
	result := mxprobe.Result{
		Email:    "john@example.com",
		Domain:   "example.com",
		Status:   mxprobe.StatusExists,
		MXUsed:   "mx1.example.com",
		SMTPCode: 250,
	}
	out, _ := json.Marshal(result)
	fmt.Println(string(out))
	// Output: {"email":"john@example.com","domain":"example.com","status":"exists","mx_used":"mx1.example.com","smtp_code":250,"smtp_response":"","error":"","elapsed_ms":0}
}

func ExampleNew_invalidOptions() {
	_, err := mxprobe.New(mxprobe.Options{})
	fmt.Println(err)
	// Output: mxprobe: invalid options: MailFrom and HeloDomain are required
}
