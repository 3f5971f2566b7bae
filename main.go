/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/movelab/onomatopoeia-api/cmd"

// @title           Onomatopoeia Survey API
// @version         1.0.0
// @description     Backend for the movement onomatopoeia annotation study
// @contact.name    API Support
// @contact.url     https://github.com/movelab/onomatopoeia-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
