package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go/client"
)

const headerTwilioSignature = "X-Twilio-Signature"

// TwilioSignature rejects webhook calls whose X-Twilio-Signature does not
// match the form parameters signed with the account auth token. publicBaseURL
// must be the scheme and host Twilio was configured with; when empty it is
// rebuilt from the request and X-Forwarded-Proto.
func TwilioSignature(authToken, publicBaseURL string) gin.HandlerFunc {
	validator := client.NewRequestValidator(authToken)
	publicBaseURL = strings.TrimRight(publicBaseURL, "/")

	return func(c *gin.Context) {
		signature := c.GetHeader(headerTwilioSignature)
		if signature == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "missing twilio signature"})
			return
		}

		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid form body"})
			return
		}

		params := make(map[string]string, len(c.Request.PostForm))
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}

		url := requestURL(c, publicBaseURL)
		if !validator.Validate(url, params, signature) {
			log.WithFields(log.Fields{
				"request_id": c.GetString(contextKeyRequestID),
				"url":        url,
			}).Warn("invalid twilio signature")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid twilio signature"})
			return
		}

		c.Next()
	}
}

func requestURL(c *gin.Context, publicBaseURL string) string {
	if publicBaseURL != "" {
		return publicBaseURL + c.Request.URL.RequestURI()
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}
