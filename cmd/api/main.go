package main

import "officehub/internal/app"

// @title           Office Hub API
// @version         1.0
// @description     REST API для управления стажировками: пользователи, задачи, посещаемость, отчёты, оценки, документы и сброс пароля по OTP.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
