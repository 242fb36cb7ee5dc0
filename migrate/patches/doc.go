// Package patches holds the ordered patch sequence of the player analytics
// schema. Steps returns it as data: versions ascend in list order and the
// list is the only place the order is defined.
package patches
