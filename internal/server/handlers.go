package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	apperrors "github.com/orgball2608/tweet-fetcher/pkg/errors"
)

const tweetNotFound = "Tweet not found"

func requireGet(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodGet {
		return fiber.NewError(fiber.StatusNotFound, tweetNotFound)
	}
	return c.Next()
}

func (s *Server) getTweet(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "No id provided")
	}

	resp, err := s.tweets.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": resp})
}

// errorHandler maps handler errors to responses. Guard failures are plain
// text; a missing tweet is JSON; anything else is an infrastructure failure.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(fe.Code).SendString(fe.Message)
	}

	if apperrors.IsNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": tweetNotFound})
	}

	s.logger.Error("Request failed",
		"request_id", c.Locals(requestid.ConfigDefault.ContextKey),
		"code", apperrors.GetCode(err),
		"error", err,
	)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
}
