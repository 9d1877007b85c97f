package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"inkwell/internal/bootstrap"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/validation"
)

var errUsage = errors.New("invalid usage")

type cli struct {
	users  *service.UserService
	groups *service.GroupService
	posts  *service.PostService
	pages  cache.PageCache
	out    io.Writer
}

func newCLI(cfg *config.Config, rt *bootstrap.Runtime, out io.Writer) *cli {
	userRepo := repository.NewUserRepository(rt.DB)
	groupRepo := repository.NewGroupRepository(rt.DB)
	postRepo := repository.NewPostRepository(rt.DB)
	v := validation.New(groupRepo, cfg.MaxUploadBytes())

	return &cli{
		users:  service.NewUserService(userRepo, v, cfg.JWTSecret),
		groups: service.NewGroupService(groupRepo),
		posts:  service.NewPostService(postRepo, v, rt.Images),
		pages:  cache.NewPageCache(rt.Redis, cfg.PageCachePrefix),
		out:    out,
	}
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "create-group":
		if len(rest) < 2 {
			return errUsage
		}
		in := service.CreateGroupInput{Slug: rest[0], Title: rest[1]}
		if len(rest) > 2 {
			in.Description = rest[2]
		}
		group, err := c.groups.CreateGroup(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Created group %q (ID: %d, slug: %s)\n", group.Title, group.ID, group.Slug)

	case "delete-group":
		if len(rest) != 1 {
			return errUsage
		}
		if err := c.groups.DeleteGroup(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted group %s\n", rest[0])

	case "delete-post":
		if len(rest) != 1 {
			return errUsage
		}
		id, err := strconv.ParseUint(rest[0], 10, 32)
		if err != nil || id == 0 {
			return fmt.Errorf("invalid post ID %q", rest[0])
		}
		if err := c.posts.DeletePost(ctx, uint(id)); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted post %d\n", id)

	case "delete-user":
		if len(rest) != 1 {
			return errUsage
		}
		if err := c.users.DeleteUser(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted user %s\n", rest[0])

	case "clear-cache":
		if err := c.pages.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Page cache cleared")

	case "promote", "demote":
		if len(rest) != 1 {
			return errUsage
		}
		user, err := c.users.SetAdmin(ctx, rest[0], cmd == "promote")
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s (ID: %d) admin=%t\n", user.Username, user.ID, user.IsAdmin)

	case "list-admins":
		admins, err := c.users.ListAdmins(ctx)
		if err != nil {
			return err
		}
		if len(admins) == 0 {
			fmt.Fprintln(c.out, "No admins found")
			return nil
		}
		for _, admin := range admins {
			fmt.Fprintf(c.out, "ID: %d | Username: %s | Email: %s\n", admin.ID, admin.Username, admin.Email)
		}

	default:
		return errUsage
	}
	return nil
}
