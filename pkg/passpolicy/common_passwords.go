package passpolicy

// commonPasswords is a small blocklist of frequently used passwords, lowercased.
// Derived from the usual top-password lists; kept deliberately short since the
// length and numeric checks already reject most of the long tail.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"passw0rd":    {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"iloveyou":    {},
	"sunshine":    {},
	"princess":    {},
	"football":    {},
	"baseball":    {},
	"superman":    {},
	"trustno1":    {},
	"welcome1":    {},
	"admin123":    {},
	"letmein1":    {},
	"dragon123":   {},
	"monkey123":   {},
	"shadow123":   {},
	"master123":   {},
	"michael1":    {},
	"jennifer":    {},
	"11111111":    {},
	"00000000":    {},
	"aa123456":    {},
	"abc12345":    {},
	"password!":   {},
}
