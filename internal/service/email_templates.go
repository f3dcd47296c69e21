package service

import "fmt"

func signupPendingEmailTemplate(userEmail, adminURL, appName string) (string, string) {
	subject := fmt.Sprintf("New %s account awaiting approval", appName)
	body := fmt.Sprintf(`A new account was created and is waiting for your approval:

%s

Review pending accounts here:
%s

Best,
The %s Team`, userEmail, adminURL, appName)

	return subject, body
}

func accountApprovedEmailTemplate(loginURL, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account is approved", appName)
	body := fmt.Sprintf(`Good news, your account has been approved. You can sign in now:
%s

Best,
The %s Team`, loginURL, appName)

	return subject, body
}
