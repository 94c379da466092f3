package services

// Services defined in this package:
// - AuthService: admin and student login, token issuance
// - StudentService: the student account pipeline (create, register, edit, list, delete)
// - ChatService: assistant conversations proxied to OpenRouter
