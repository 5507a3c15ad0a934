package resolve

import "prism/internal/model"

// Stats counts cache traffic.
type Stats struct {
	Hits   int
	Misses int
}

// Cache memoizes resolutions for one compilation. A key resolved once keeps
// its value (the same *OverloadSet) until the cache is dropped; failures are
// returned to the caller and not stored.
type Cache struct {
	resolver Resolver
	nodes    map[NodeKey]*OverloadSet
	members  map[MemberKey]*OverloadSet
	stats    Stats
}

func NewCache(r Resolver) *Cache {
	return &Cache{
		resolver: r,
		nodes:    make(map[NodeKey]*OverloadSet),
		members:  make(map[MemberKey]*OverloadSet),
	}
}

// Node resolves what a syntax node refers to.
func (c *Cache) Node(node model.NodeID, static bool) (*OverloadSet, error) {
	key := NodeKey{Node: node, Static: static}
	if set, ok := c.nodes[key]; ok {
		c.stats.Hits++
		return set, nil
	}
	c.stats.Misses++
	set, err := c.resolver.ResolveNode(key)
	if err != nil {
		return nil, err
	}
	c.nodes[key] = set
	return set, nil
}

// Member resolves the overload set a member belongs to.
func (c *Cache) Member(member model.MemberID, static, inherited bool) (*OverloadSet, error) {
	key := MemberKey{Member: member, Static: static, Inherited: inherited}
	if set, ok := c.members[key]; ok {
		c.stats.Hits++
		return set, nil
	}
	c.stats.Misses++
	set, err := c.resolver.ResolveMember(key)
	if err != nil {
		return nil, err
	}
	c.members[key] = set
	return set, nil
}

func (c *Cache) Stats() Stats { return c.stats }
