package bsg

import (
	"log"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/utils"
	"github.com/pkg/errors"
)

// Collection is a named set of drawables sharing the collection transform.
// Children are visited in name order.
type Collection struct {
	Node

	objects map[string]Drawable
	names   utils.RandomNameGenerator
}

var _ Drawable = (*Collection)(nil)

func NewCollection(name string) *Collection {
	c := &Collection{
		objects: make(map[string]Drawable),
		names:   make(utils.RandomNameGenerator),
	}
	c.init(name)
	return c
}

func (c *Collection) Base() *Node { return &c.Node }

// AddObjectNamed stores d under name, replacing an earlier object with that
// name. The name is the key in this collection only, the node keeps its own.
func (c *Collection) AddObjectNamed(name string, d Drawable) string {
	if old, ok := c.objects[name]; ok && old != d {
		old.Base().SetParent(nil)
	}
	d.Base().SetParent(&c.Node)
	c.objects[name] = d
	return name
}

// AddObject stores d under its own name. Unnamed objects and objects whose
// name is already taken get a random name. Returns the name used.
func (c *Collection) AddObject(d Drawable) string {
	name := d.Base().Name()
	if name == "" {
		return c.AddObjectNamed(c.randomName(), d)
	}
	if _, taken := c.objects[name]; taken {
		newName := c.randomName()
		log.Printf("[bsg] You have already used %q in %q. Assigning a random name %q", name, c.name, newName)
		return c.AddObjectNamed(newName, d)
	}
	return c.AddObjectNamed(name, d)
}

func (c *Collection) randomName() string {
	return c.names.RandomNameExcept(func(n string) bool {
		_, taken := c.objects[n]
		return taken
	})
}

func (c *Collection) GetObject(name string) (Drawable, error) {
	if d, ok := c.objects[name]; ok {
		return d, nil
	}
	return nil, errors.Errorf("what object is %s?", name)
}

// RemoveObject detaches the named object from the collection.
func (c *Collection) RemoveObject(name string) (Drawable, error) {
	d, err := c.GetObject(name)
	if err != nil {
		return nil, err
	}
	delete(c.objects, name)
	d.Base().SetParent(nil)
	return d, nil
}

func (c *Collection) Len() int { return len(c.objects) }

func (c *Collection) Names() []string {
	names := make([]string, 0, len(c.objects))
	for name := range c.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Collection) Prepare() error {
	for _, name := range c.Names() {
		if err := c.objects[name].Prepare(); err != nil {
			return errors.Wrapf(err, "Collection %q: %q", c.name, name)
		}
	}
	return nil
}

func (c *Collection) Load() {
	for _, name := range c.Names() {
		c.objects[name].Load()
	}
}

func (c *Collection) Draw(view, proj mgl32.Mat4) {
	if !c.visible {
		return
	}
	for _, name := range c.Names() {
		c.objects[name].Draw(view, proj)
	}
}

// Walk visits d and every descendant depth first, children in name order.
// Path elements are the names children are stored under, the first one is
// the name of d. Returning false from fn skips the children of that drawable.
func Walk(d Drawable, fn func(path []string, d Drawable) bool) {
	walk(nil, d.Base().Name(), d, fn)
}

func walk(path []string, name string, d Drawable, fn func([]string, Drawable) bool) {
	path = append(path[:len(path):len(path)], name)
	if !fn(path, d) {
		return
	}
	if c, ok := d.(*Collection); ok {
		for _, child := range c.Names() {
			walk(path, child, c.objects[child], fn)
		}
	}
}
